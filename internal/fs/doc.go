// Package fs abstracts the file operations of the local blob store so write
// failures can be injected in tests.
//
// Production code uses [Default]. Tests wrap it in a [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp-", fs.Fault{FailAfterBytes: 1024})
//
// Operations take no context. Local file calls are not interruptible at the
// syscall level; cancellation is checked by the blob store around them.
package fs
