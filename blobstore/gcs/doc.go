// Package gcs stores snapshots in Google Cloud Storage.
//
//	client, err := storage.NewClient(ctx, option.WithCredentialsFile(keyPath))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	store := gcs.NewStore(client, "my-bucket", "grid/")
//	err = snapshot.Save(ctx, store, "batch-0001.pgd", ds)
//
// Reads are pinned to the object generation seen by Open, so a blob that is
// overwritten while open keeps returning the old bytes or fails.
package gcs
