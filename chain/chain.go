// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package chain implements the extensible structure chains attached to
// capability queries.
//
// Every extensible input or output struct embeds a [Link] as its first field
// and reports a discriminant through StructureType. A chain is a singly
// linked list of such structs terminated by a nil Next. The discriminant
// space is open: applications and drivers may attach structures this package
// has never heard of, carried as [Opaque] values or as their own types.
//
// # Walking
//
// [Walk] visits a chain strictly forward and applies the [Transform]
// registered for each discriminant. Nodes without a transform are left
// untouched and reported once per node:
//
//	fixups := chain.Transforms{
//		vk.StructureTypePhysicalDeviceMultiviewFeatures: chain.On(func(f *vk.PhysicalDeviceMultiviewFeatures) {
//			f.Multiview = false
//		}),
//	}
//	chain.Walk(features.Next, fixups, func(i int, t chain.StructureType) {
//		log.Printf("link %d: unrecognized structure type %v", i, t)
//	})
//
// Walk never inserts or removes nodes, never allocates and never recurses.
// A chain ends at a nil Next. A typed nil pointer stored in Next, such as
// (*vk.PhysicalDeviceIDProperties)(nil), ends it as well.
package chain

import (
	"fmt"
	"reflect"
)

// StructureType is the discriminant identifying the concrete type of a
// chain node.
type StructureType uint32

// String returns the numeric discriminant.
func (t StructureType) String() string {
	return fmt.Sprintf("VkStructureType(%d)", uint32(t))
}

// Structure is a node of an extensible structure chain.
type Structure interface {
	// StructureType returns the node's discriminant.
	StructureType() StructureType

	// NextStructure returns the following node, or nil at the end of the
	// chain.
	NextStructure() Structure
}

// Link is embedded as the first field of every extensible struct.
type Link struct {
	// Next is the following node, or nil.
	Next Structure
}

// NextStructure returns l.Next.
func (l *Link) NextStructure() Structure { return l.Next }

// Opaque carries a structure whose layout is unknown to the loader.
// Its payload is never interpreted.
type Opaque struct {
	Link
	Type    StructureType
	Payload []byte
}

// StructureType returns the carried discriminant.
func (o *Opaque) StructureType() StructureType { return o.Type }

// Transform mutates the payload of a recognized node in place.
// It returns false if it could not handle the node, in which case the
// walker treats the node as unrecognized.
type Transform func(Structure) bool

// Transforms maps discriminants to their transforms.
type Transforms map[StructureType]Transform

// On adapts a typed function to a Transform. The resulting transform
// declines nodes of any other Go type, such as an [Opaque] that happens to
// carry the same discriminant.
func On[T any, PT interface {
	*T
	Structure
}](fn func(PT)) Transform {
	return func(s Structure) bool {
		p, ok := s.(PT)
		if !ok {
			return false
		}
		fn(p)
		return true
	}
}

// Walk visits every node reachable from head. For each node it invokes the
// registered transform; nodes without one (or whose transform declines
// them) are passed to unknown together with their zero-based position.
// unknown may be nil. Walk returns the number of nodes visited.
func Walk(head Structure, transforms Transforms, unknown func(index int, t StructureType)) int {
	n := 0
	for s := head; !end(s); s = s.NextStructure() {
		st := s.StructureType()
		handled := false
		if fn, ok := transforms[st]; ok {
			handled = fn(s)
		}
		if !handled && unknown != nil {
			unknown(n, st)
		}
		n++
	}
	return n
}

// end reports whether s terminates a chain: a nil interface or a nil
// pointer of any node type.
func end(s Structure) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Count returns the number of nodes reachable from head.
func Count(head Structure) int {
	return Walk(head, nil, nil)
}

// Find returns the first node of Go type PT reachable from head.
func Find[T any, PT interface {
	*T
	Structure
}](head Structure) (PT, bool) {
	for s := head; !end(s); s = s.NextStructure() {
		if p, ok := s.(PT); ok {
			return p, true
		}
	}
	return nil, false
}

// Types returns the discriminants of the chain in order. Intended for
// diagnostics and tests; unlike Walk it allocates.
func Types(head Structure) []StructureType {
	var out []StructureType
	for s := head; !end(s); s = s.NextStructure() {
		out = append(out, s.StructureType())
	}
	return out
}
