// Package duplication finds reference regions whose content occurs more
// than once, so that alignments against identical copies can be shared.
package duplication
