// Package container provides the two utility containers the decoder is built
// on: a chained-bucket hash table with dense entry storage, and a growable
// array with swap-erase and an in-place quicksort.
//
// Neither container is safe for concurrent use. A parse session owns its
// containers exclusively.
package container
