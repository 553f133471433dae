// Package fs abstracts the file operations of the local blob store so that
// tests can inject I/O failures.
//
// Production code uses fs.Default ([LocalFS]). Tests wrap it in a
// [FaultyFS] and add rules keyed by a substring of the file name:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("genome", fs.Fault{FailAfterBytes: 1024})
//
// Operations take no context. Local file calls are not interruptible at
// the syscall level; remote stores use [blobstore.Blob], which does.
package fs
