// Package redis implements the session, step-result, and profile stores
// on Redis. Entities live in Hashes; the per-session result set is
// tracked in a Set for enumeration and reset. Suitable when session
// state is allowed to be as durable as the Redis deployment backing it.
//
// The version check on session updates runs as a Lua script, so two
// orchestrator instances racing on the same session resolve to exactly
// one winner.
//
// The caller owns the Redis client lifecycle -- the store never closes
// it:
//
//	client := goredis.NewClient(&goredis.Options{Addr: "localhost:6379"})
//	st := redis.New(client)
//	if err := st.Ping(ctx); err != nil { ... }
package redis
