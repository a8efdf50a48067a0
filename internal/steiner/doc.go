// Package steiner computes group Steiner trees over a relatedness graph.
//
// Given k keywords, the solver looks for the cheapest connected set of APIs
// that contains, for every keyword, at least one API labelled with it. It
// runs the Dreyfus-Wagner subset dynamic program: for each keyword subset S,
// in increasing bitmask order, partial trees rooted at the same node are
// merged across every split of S, then a multi-source Dijkstra pass pushes
// them along graph edges. The result is exact for the keyword-group
// formulation only up to the usual overlap between merged subtrees, and the
// table holds n*(2^k-1) cells, which is why k is capped.
//
// A Solver never writes to the graph, so one frozen graph can serve many
// concurrent Solve calls. Each call owns its own table.
package steiner
