package vodfs

import "time"

// dirEntryTimeout is how long the kernel dentry/attr cache may serve a VODFS
// entry before re-asking Lookup/Getattr. The catalog backing a mount is a
// snapshot taken when the mount starts (cmd/channelcast loads it once from
// Store), not re-read on every lookup, so a short fixed TTL is enough to
// avoid a stat storm.
const dirEntryTimeout = 1 * time.Second

// inoNamespace prefixes every inoFromString key so VODFS inode hashes never
// collide with inode numbers from an unrelated FUSE filesystem sharing the
// same process (not a concern today, but inoFromString alone gives no such
// guarantee).
const inoNamespace = "channelcast-vod:"
