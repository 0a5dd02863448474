package verify

import (
	"github.com/llir/llvm/ir"
)

// dominators computes, for every block, the set of blocks that dominate it.
// Unreachable blocks are dominated by every block.
func dominators(fn *ir.Func) map[*ir.Block]map[*ir.Block]bool {
	blocks := fn.Blocks
	entry := blocks[0]

	preds := make(map[*ir.Block][]*ir.Block, len(blocks))
	for _, b := range blocks {
		if b.Term == nil {
			continue
		}
		for _, succ := range b.Term.Succs() {
			preds[succ] = append(preds[succ], b)
		}
	}

	all := func() map[*ir.Block]bool {
		set := make(map[*ir.Block]bool, len(blocks))
		for _, b := range blocks {
			set[b] = true
		}
		return set
	}

	dom := make(map[*ir.Block]map[*ir.Block]bool, len(blocks))
	dom[entry] = map[*ir.Block]bool{entry: true}
	for _, b := range blocks[1:] {
		dom[b] = all()
	}

	for changed := true; changed; {
		changed = false

		for _, b := range blocks[1:] {
			next := all()
			for _, p := range preds[b] {
				pd, ok := dom[p]
				if !ok {
					continue
				}
				for d := range next {
					if !pd[d] {
						delete(next, d)
					}
				}
			}
			next[b] = true

			if len(next) != len(dom[b]) {
				dom[b] = next
				changed = true
			}
		}
	}

	return dom
}
