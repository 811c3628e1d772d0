package routeoptimizer

import (
	"github.com/fieldops/surveyroute/pkg/model"
	"golang.org/x/exp/rand"
)

const (
	populationSize = 50
	generations    = 100
	tournamentSize = 3
	mutationRate   = 0.1
	geneticSeed    = 42
)

// geneticTour evolves a population of random permutations and returns the
// shortest tour seen across all generations. Fitness is 1/(length+1);
// parents are picked by 3-way tournament, offspring by order-preserving
// crossover with a 10% swap mutation. Tiny inputs gain nothing from a
// population search and go through nearest-neighbor instead.
func geneticTour(addrs []model.Address, w []float64) []int {
	n := len(addrs)
	if n <= 3 {
		return nearestNeighborTour(addrs, w)
	}

	rng := rand.New(rand.NewSource(geneticSeed))

	population := make([][]int, populationSize)
	for p := range population {
		population[p] = rng.Perm(n)
	}

	best := make([]int, n)
	copy(best, population[0])
	bestLength := tourLength(best, w, n)

	fitness := make([]float64, populationSize)

	for gen := 0; gen < generations; gen++ {
		for p, tour := range population {
			length := tourLength(tour, w, n)
			fitness[p] = 1.0 / (length + 1.0)
			if length < bestLength {
				bestLength = length
				copy(best, tour)
			}
		}

		next := make([][]int, populationSize)
		for p := 0; p < populationSize; p++ {
			parent1 := tournamentSelect(population, fitness, rng)
			parent2 := tournamentSelect(population, fitness, rng)
			child := orderCrossover(parent1, parent2, rng)
			if rng.Float64() < mutationRate {
				swapMutate(child, rng)
			}
			next[p] = child
		}
		population = next
	}

	// The final generation was produced but not yet scored.
	for _, tour := range population {
		if length := tourLength(tour, w, n); length < bestLength {
			bestLength = length
			copy(best, tour)
		}
	}

	return best
}

// tournamentSelect samples tournamentSize candidates and returns the fittest.
func tournamentSelect(population [][]int, fitness []float64, rng *rand.Rand) []int {
	best := rng.Intn(len(population))
	for i := 1; i < tournamentSize; i++ {
		candidate := rng.Intn(len(population))
		if fitness[candidate] > fitness[best] {
			best = candidate
		}
	}
	return population[best]
}

// orderCrossover copies a random slice of parent1 into the child and fills
// the remaining positions in parent2's relative order, skipping duplicates.
func orderCrossover(parent1, parent2 []int, rng *rand.Rand) []int {
	n := len(parent1)
	start := rng.Intn(n)
	end := rng.Intn(n)
	if start > end {
		start, end = end, start
	}

	child := make([]int, n)
	taken := make([]bool, n)
	for i := range child {
		child[i] = -1
	}
	for i := start; i <= end; i++ {
		child[i] = parent1[i]
		taken[parent1[i]] = true
	}

	cursor := (end + 1) % n
	for offset := 0; offset < n; offset++ {
		gene := parent2[(end+1+offset)%n]
		if taken[gene] {
			continue
		}
		child[cursor] = gene
		taken[gene] = true
		cursor = (cursor + 1) % n
	}

	return child
}

func swapMutate(tour []int, rng *rand.Rand) {
	i := rng.Intn(len(tour))
	j := rng.Intn(len(tour))
	tour[i], tour[j] = tour[j], tour[i]
}
