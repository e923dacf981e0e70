// Package widgets contains the stock component types built on
// pkg/component: an accordion and a scrollspy.
//
// Widgets operate on a minimal in-memory Element model. It carries only what
// the widgets need (classes, attributes, a hidden flag, children and simple
// event listeners); it is not a DOM implementation.
package widgets
