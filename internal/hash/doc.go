// Package hash provides the CRC32-Castagnoli checksums that guard snapshot
// headers, manifests and bodies.
//
//	sum := hash.CRC32C(codecName, manifest)
//	if err := hash.Verify("manifest", h.MetaCRC, codecName, manifest); err != nil {
//	    return err
//	}
package hash
