package analysis

import (
	"strings"

	"github.com/TFMV/codereview/types"
	"github.com/cespare/xxhash/v2"
)

// FindDuplicates reports every DuplicateBlockSize-line block that occurs
// again later in lines.
//
// For each start offset i, the group holds i followed by every later offset
// whose block is identical line for line. A block seen at offsets 2, 7 and 12
// therefore yields the groups [2 7 12] and [7 12]. Candidates are looked up
// through an xxhash index and confirmed by comparing text, so the result is
// the same as comparing every pair of blocks.
func FindDuplicates(lines []string) []types.DuplicateGroup {
	groups := make([]types.DuplicateGroup, 0)

	last := len(lines) - DuplicateBlockSize
	if last < 0 {
		return groups
	}

	blocks := make([]string, last+1)
	hashes := make([]uint64, last+1)
	index := make(map[uint64][]int)
	for i := 0; i <= last; i++ {
		blocks[i] = strings.Join(lines[i:i+DuplicateBlockSize], "\n")
		hashes[i] = xxhash.Sum64String(blocks[i])
		index[hashes[i]] = append(index[hashes[i]], i)
	}

	for i := 0; i <= last; i++ {
		var matches []int
		for _, j := range index[hashes[i]] {
			if j > i && blocks[j] == blocks[i] {
				matches = append(matches, j)
			}
		}
		if len(matches) == 0 {
			continue
		}

		offsets := make([]int, 0, len(matches)+1)
		offsets = append(offsets, i)
		offsets = append(offsets, matches...)
		groups = append(groups, types.DuplicateGroup{
			Block:   blocks[i],
			Offsets: offsets,
		})
	}

	return groups
}
