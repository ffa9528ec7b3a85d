package rank

import (
	"strings"
)

// CycleWarningType tags warnings produced by FindCycles.
const CycleWarningType = "circular_dependency"

// CycleWarning reports one circular dependency chain. Tasks holds the ids
// along the cycle with the first id repeated at the end.
type CycleWarning struct {
	Type    string `json:"type" yaml:"type"`
	Message string `json:"message" yaml:"message"`
	Tasks   []any  `json:"tasks" yaml:"tasks"`
}

type graphNode struct {
	id   any
	deps []any
}

// frame is one level of the depth-first walk: the node and the index of
// the next dependency to follow.
type frame struct {
	key  string
	id   any
	next int
}

// FindCycles walks the dependency graph formed by the tasks that carry an
// id and reports cycles. Start nodes are taken in first-seen order and a
// node is never expanded twice, so each walk reports at most one cycle.
// The walk keeps its own stack and does not recurse, so batch size does not
// bound call depth.
func FindCycles(batch []RawTask) []CycleWarning {
	var order []string
	nodes := make(map[string]graphNode)
	for _, raw := range batch {
		k, ok := idKey(raw["id"])
		if !ok {
			continue
		}
		if _, seen := nodes[k]; !seen {
			order = append(order, k)
		}
		deps, _ := asList(raw["dependencies"])
		nodes[k] = graphNode{id: raw["id"], deps: deps}
	}

	visited := make(map[string]bool, len(nodes))
	var warnings []CycleWarning
	for _, start := range order {
		if visited[start] {
			continue
		}
		if cycle := walkFrom(start, nodes, visited); cycle != nil {
			labels := make([]string, len(cycle))
			for i, id := range cycle {
				labels[i] = display(id)
			}
			warnings = append(warnings, CycleWarning{
				Type:    CycleWarningType,
				Message: "Circular dependency detected: " + strings.Join(labels, " → "),
				Tasks:   cycle,
			})
		}
	}
	return warnings
}

// walkFrom runs one depth-first walk and returns the first cycle it closes,
// or nil. Nodes it reaches are marked in visited either way.
func walkFrom(start string, nodes map[string]graphNode, visited map[string]bool) []any {
	visited[start] = true
	stack := []frame{{key: start, id: nodes[start].id}}
	onStack := map[string]int{start: 0}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		deps := nodes[top.key].deps
		if top.next >= len(deps) {
			delete(onStack, top.key)
			stack = stack[:len(stack)-1]
			continue
		}
		dep := deps[top.next]
		top.next++

		k, ok := idKey(dep)
		if !ok {
			continue
		}
		if at, on := onStack[k]; on {
			cycle := make([]any, 0, len(stack)-at+1)
			for _, f := range stack[at:] {
				cycle = append(cycle, f.id)
			}
			return append(cycle, stack[at].id)
		}
		if visited[k] {
			continue
		}
		visited[k] = true
		onStack[k] = len(stack)
		stack = append(stack, frame{key: k, id: dep})
	}
	return nil
}
