// Package badger stores snapshots as values in an embedded BadgerDB.
//
// Blobs are held whole in one value, so the store suits many small to
// medium snapshots kept next to the process that produces them.
//
//	store, err := badger.Open(badger.Config{Path: "/var/lib/gridbuf"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	err = snapshot.Save(ctx, store, "batch-0001.pgd", ds)
package badger
