// Package acl holds the anti-corruption layer between the goods receipt
// context and its upstream collaborators: the Purchasing context that owns
// purchase orders and the Catalog context that owns item metadata.
//
// The interfaces are defined here in the domain and implemented in the
// infrastructure layer, following the Dependency Inversion Principle. The
// receipt workflow depends only on these ports, never on the collaborators'
// transport or schemas.
package acl
