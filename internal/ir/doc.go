// Package ir provides the constrained value types shared by the query IR,
// the SQL compiler and the store.
//
// This package contains type definitions only. All other internal packages
// may import ir; ir imports nothing internal.
//
// Key design constraints:
//   - NO float types anywhere - use int64 for numbers
//   - Values convert to SQL parameters via ToParam and back via FromColumn
package ir
