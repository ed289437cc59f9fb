// Package models defines the core domain models for Yatube.
//
// # Models
//
//   - User: a registered account; the author of posts and comments
//   - Group: a named community posts can be tagged with
//   - Post: a published entry, optionally in a group, optionally with an image
//   - Comment: a reply to a post
//   - Follow: a directed edge from a reader to an author
//
// # Design Principles
//
//  1. **Storage owns invariants**: uniqueness and self-reference rules live in
//     the schema; models carry data only
//  2. **IDs for relations**: relations are stored as int64 IDs, with optional
//     hydrated pointers (Post.Author, Post.Group) filled in by read queries
//  3. **Creation time is stamped once**: see Created
package models
