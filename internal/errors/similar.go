package errors

// FindSimilarNames returns candidates within a small edit distance of name,
// closest first.
func FindSimilarNames(name string, candidates []string) []string {
	maxDistance := 2
	if len(name) <= 3 {
		maxDistance = 1
	}

	var similar []string
	for d := 1; d <= maxDistance; d++ {
		for _, c := range candidates {
			if c != name && levenshteinDistance(name, c) == d {
				similar = append(similar, c)
			}
		}
	}
	return similar
}

func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(b); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}
