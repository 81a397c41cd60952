// Package files stores references to image files that RoleB identities
// upload for a RoleA identity.
//
// Only metadata is persisted, under the "uploadedFiles" key. The BlobRef of a
// reference points at bytes staged for the current process and is dangling
// after a restart. Create neither checks content types nor rewrites file
// names; callers decide what is acceptable.
package files
