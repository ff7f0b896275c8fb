// Package mem provides aligned allocation for decoded snapshot buffers.
package mem
