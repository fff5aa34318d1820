/*
Package resilience provides circuit breakers for calls to remote hosts.

The library fetcher keeps one breaker per host in a Group, so a host that
keeps failing is skipped quickly instead of paying the full retry budget on
every load attempt.

# Usage

	group := resilience.NewGroup(resilience.Settings{
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	path, err := resilience.Do(group.Get(u.Host), func() (string, error) {
		return download(ctx, u)
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                       [failure]
	                                           v
	                                         Open
*/
package resilience
