// Package mongo implements the session, step-result, and profile stores
// on MongoDB using the official driver. Sessions guard concurrent
// updates with a version field checked in the replace filter; step
// results are upserted against a unique (session_id, step_number)
// index.
//
// The caller owns the client lifecycle -- the store never disconnects
// it:
//
//	client, err := mongod.Connect(options.Client().ApplyURI(uri))
//	if err != nil { ... }
//	st := mongo.New(client.Database("vestro"))
//	if err := st.Migrate(ctx); err != nil { ... }
package mongo
