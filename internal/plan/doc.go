// Package plan turns a batch of analysed documents into a reviewable
// reorganisation: a folder structure grouped by primary tag, a human-readable
// execution plan, and an executor that applies the plan to the filesystem.
package plan
