// Package graph provides the retained widget graph: the per-widget cache that
// survives between update cycles, the draw order computed from it, and the
// spatial queries the widget layer needs while positioning.
//
// # Overview
//
// Every widget instance is a node. Nodes are connected by two kinds of
// directed edges:
//
//   - [EdgeChild]: parent → child. A node has at most one incoming child edge.
//   - [EdgeRelativePosition]: target → widget positioned against it. A node
//     has at most one incoming relative-position edge.
//
// Both invariants, and acyclicity across both edge kinds, are enforced when
// an edge is set. An edge that would close a cycle is rejected: it is logged,
// reported through the observability hooks, and returned as an error matching
// [ErrCycle], while the rest of the operation completes.
//
// # Basic Usage
//
// Widgets are cached in two steps per cycle. [Graph.CachePreUpdate] records
// layout and interaction data and links the widget into the tree;
// [Graph.CachePostUpdate] records the state produced by the widget's update:
//
//	g := graph.New()
//	ids := graph.NewGenerator(g)
//	canvas, label := ids.Next(), ids.Next()
//
//	g.ResetCycle()
//	_ = g.CachePreUpdate(widget.PreUpdate{ID: canvas, Kind: "Canvas", Rect: r})
//	_ = g.CachePreUpdate(widget.PreUpdate{ID: label, Kind: "Text", Parent: canvas.Ref(), Rect: lr})
//	g.CachePostUpdate(widget.PostUpdate{ID: label, State: st})
//	g.UpdateDepthOrder(nil, nil)
//
// # Draw Order
//
// [Graph.UpdateDepthOrder] linearises the tree into [Graph.DepthOrder].
// Ancestors precede descendants, siblings are ordered by descending depth
// with captured widgets last, scroll regions are closed by a scrollbar
// entry, and floating widgets follow the main tree ordered by their
// last-interacted stamp.
//
// # Node Lifetime
//
// Nodes are never removed. A widget that stops being set keeps its slot and
// edges; [Graph.Stale] reports such widgets and [Graph.ReleaseStale] turns
// widgets idle for too long back into placeholders, dropping their cached
// payloads and invalidating outstanding [NodeIndex] handles.
//
// # Concurrency
//
// A Graph is not safe for concurrent use. One cycle mutates it fully before
// any extraction or query reads it.
package graph
