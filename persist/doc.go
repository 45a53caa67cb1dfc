// Package persist saves and loads a waypoint map as three independent
// artifacts:
//
//  1. the spatial provider's world snapshot (opaque bytes);
//  2. the adjacency as an ordered list of node-index lists;
//  3. the name -> node-index mapping.
//
// Node indices refer to positions in the anchor order the provider reports
// after restoring the world snapshot, never to live node ids.
//
// Three Store implementations are provided:
//
//   - FileStore writes one file per artifact plus a manifest into a
//     directory. The world file is zstd-compressed; the manifest records a
//     BLAKE3 digest of the uncompressed world that Load verifies. Artifacts
//     are written under a new generation suffix and the manifest, replaced
//     atomically (temp file + rename) last, names the current generation.
//     An interrupted save leaves the previous map loadable.
//   - SQLiteStore keeps the latest bundle in a single row, written in one
//     transaction.
//   - BadgerStore keeps the same four artifacts as FileStore under fixed
//     keys of an embedded BadgerDB, written in one transaction.
package persist
