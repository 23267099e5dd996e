// evictor.go houses the eviction loop for the Provisioner.  Every
// EvictInterval it scans the pool map and removes:
//
//   - pools idle longer than idleTTL
//   - least-recently-used pools when map size exceeds maxPools
//
// Eviction is safe because cold opens are idempotent: the next request for
// an evicted tenant simply re-opens its pool.  Each event is logged and
// updates the Prometheus counters.
package tenant

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/alnashra/platform/internal/metrics"
)

func (p *Provisioner) evictLoop() {
	for range p.evictTicker.C {
		now := time.Now().UnixNano()
		var count int

		// Idle pass.
		p.m.Range(func(key, value any) bool {
			count++
			ent := value.(*entry)
			idle := time.Duration(now - atomic.LoadInt64(&ent.lastSeen))
			if idle > p.idleTTL {
				_ = ent.db.Close()
				p.m.Delete(key)
				count--
				p.log.Infow("tenant pool evicted",
					"tenant", key, "idle", idle.Truncate(time.Second))
				metrics.TenantPoolEvictTotal.Inc()
				metrics.ActiveTenantPools.Dec()
			}
			return true
		})

		// LRU pass.
		if p.maxPools > 0 && count > p.maxPools {
			type kv struct {
				key string
				at  int64
			}
			var all []kv
			p.m.Range(func(key, value any) bool {
				ent := value.(*entry)
				all = append(all, kv{key: key.(string), at: atomic.LoadInt64(&ent.lastSeen)})
				return true
			})
			sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
			for i := 0; i < len(all)-p.maxPools; i++ {
				if v, ok := p.m.LoadAndDelete(all[i].key); ok {
					_ = v.(*entry).db.Close()
					p.log.Infow("tenant pool evicted", "tenant", all[i].key, "reason", "lru")
					metrics.TenantPoolEvictTotal.Inc()
					metrics.ActiveTenantPools.Dec()
				}
			}
		}
	}
}
