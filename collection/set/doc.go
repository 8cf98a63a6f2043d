// Package set provides a generic hash set.
//
// The set uses a map for O(1) add, remove, and contains operations. It is
// not safe for concurrent use; callers that share a set across goroutines
// must provide their own synchronization.
//
// Basic usage:
//
//	s := set.New(1, 2)
//	s.Contains(1)  // true
//	s.Remove(1)
//	s.Len()        // 1
//
// Set operations:
//
//	union := s1.Union(s2)
//	diff := s1.Difference(s2)
package set
