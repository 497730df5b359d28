// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import "math/rand/v2"

// RandomInputs returns count pseudo-random byte strings of length 0 to
// maxLength. The same seed always yields the same corpus.
func RandomInputs(seed uint64, count, maxLength int) [][]byte {
	random := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	inputs := make([][]byte, count)
	for index := range inputs {
		input := make([]byte, random.IntN(maxLength+1))
		for position := range input {
			// Bias toward small values so that tags and short lengths
			// appear often enough to get past the first byte.
			if random.IntN(2) == 0 {
				input[position] = byte(random.IntN(32))
			} else {
				input[position] = byte(random.IntN(256))
			}
		}
		inputs[index] = input
	}
	return inputs
}

// Truncations returns every proper prefix of data, shortest first.
func Truncations(data []byte) [][]byte {
	prefixes := make([][]byte, len(data))
	for length := range prefixes {
		prefixes[length] = data[:length:length]
	}
	return prefixes
}

// Mutations returns copies of data with one byte replaced. Every
// position is mutated with each replacement value; with no values given
// it uses 0x00, 0xff and each position's byte plus one.
func Mutations(data []byte, values ...byte) [][]byte {
	var mutations [][]byte
	for position := range data {
		replacements := values
		if len(replacements) == 0 {
			replacements = []byte{0x00, 0xff, data[position] + 1}
		}
		for _, value := range replacements {
			if value == data[position] {
				continue
			}
			mutated := append([]byte(nil), data...)
			mutated[position] = value
			mutations = append(mutations, mutated)
		}
	}
	return mutations
}
