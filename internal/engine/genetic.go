package engine

import (
	"math/rand"
	"sort"

	"github.com/piwi3910/RollCut/internal/model"
)

// GeneticConfig holds parameters for the genetic algorithm optimizer.
type GeneticConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
}

// DefaultGeneticConfig returns sensible default parameters.
func DefaultGeneticConfig() GeneticConfig {
	return GeneticConfig{
		PopulationSize: 50,
		Generations:    100,
		MutationRate:   0.15,
		TournamentSize: 3,
		EliteCount:     2,
	}
}

// chromosome is a piece order decoded by first fit.
type chromosome struct {
	genes   []int // order index per piece
	fitness float64
}

// geneticOptimizer searches piece orders for the one first fit packs best.
type geneticOptimizer struct {
	book   *model.OrderBook
	config GeneticConfig
	eps    float64
	pieces []int
	rng    *rand.Rand
}

func newGeneticOptimizer(book *model.OrderBook, config GeneticConfig, eps float64, seed int64) *geneticOptimizer {
	return &geneticOptimizer{
		book:   book,
		config: config,
		eps:    eps,
		pieces: expandPieces(book),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// optimize runs the genetic algorithm and returns the best packing.
func (g *geneticOptimizer) optimize() []openRoll {
	population := g.initPopulation()
	for i := range population {
		population[i].fitness = g.evaluate(population[i])
	}

	for gen := 0; gen < g.config.Generations; gen++ {
		sort.SliceStable(population, func(i, j int) bool {
			return population[i].fitness > population[j].fitness
		})

		newPop := make([]chromosome, 0, g.config.PopulationSize)

		// Elitism: carry over the best individuals unchanged
		eliteCount := g.config.EliteCount
		if eliteCount > len(population) {
			eliteCount = len(population)
		}
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, g.copyChromosome(population[i]))
		}

		for len(newPop) < g.config.PopulationSize {
			parent1 := g.tournamentSelect(population)
			parent2 := g.tournamentSelect(population)
			child := g.orderCrossover(parent1, parent2)
			g.mutate(&child)
			child.fitness = g.evaluate(child)
			newPop = append(newPop, child)
		}
		population = newPop
	}

	sort.SliceStable(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
	return firstFit(g.book, population[0].genes, g.eps)
}

// initPopulation creates random piece orders plus the widest-first order.
func (g *geneticOptimizer) initPopulation() []chromosome {
	n := len(g.pieces)
	population := make([]chromosome, g.config.PopulationSize)
	for i := range population {
		genes := make([]int, n)
		for j, k := range g.rng.Perm(n) {
			genes[j] = g.pieces[k]
		}
		population[i] = chromosome{genes: genes}
	}

	if g.config.PopulationSize > 0 {
		greedy := append([]int(nil), g.pieces...)
		sort.SliceStable(greedy, func(a, b int) bool {
			return g.book.Width(greedy[a]) > g.book.Width(greedy[b])
		})
		population[0] = chromosome{genes: greedy}
	}
	return population
}

// evaluate scores a piece order. Fewer rolls dominate; among equal counts
// fuller rolls win, which rewards emptying the last roll.
func (g *geneticOptimizer) evaluate(c chromosome) float64 {
	rolls := firstFit(g.book, c.genes, g.eps)
	if len(rolls) == 0 {
		return 0
	}
	var fill float64
	for _, r := range rolls {
		f := r.used / g.book.Capacity()
		fill += f * f
	}
	return -float64(len(rolls)) + fill/float64(len(rolls))
}

// tournamentSelect picks the best individual from a random tournament.
func (g *geneticOptimizer) tournamentSelect(population []chromosome) chromosome {
	best := population[g.rng.Intn(len(population))]
	for i := 1; i < g.config.TournamentSize; i++ {
		candidate := population[g.rng.Intn(len(population))]
		if candidate.fitness > best.fitness {
			best = candidate
		}
	}
	return g.copyChromosome(best)
}

// orderCrossover implements Order Crossover (OX1) on piece multisets.
// Pieces of the same order are interchangeable, so the segment is tracked
// by remaining count per order rather than by identity.
func (g *geneticOptimizer) orderCrossover(parent1, parent2 chromosome) chromosome {
	n := len(parent1.genes)
	if n <= 2 {
		return g.copyChromosome(parent1)
	}

	point1 := g.rng.Intn(n)
	point2 := g.rng.Intn(n)
	if point1 > point2 {
		point1, point2 = point2, point1
	}

	child := chromosome{genes: make([]int, n)}
	taken := make(map[int]int)
	for i := point1; i <= point2; i++ {
		child.genes[i] = parent1.genes[i]
		taken[parent1.genes[i]]++
	}

	childIdx := (point2 + 1) % n
	for _, order := range parent2.genes {
		if taken[order] > 0 {
			taken[order]--
			continue
		}
		child.genes[childIdx] = order
		childIdx = (childIdx + 1) % n
	}
	return child
}

// mutate applies swap and inversion mutations.
func (g *geneticOptimizer) mutate(c *chromosome) {
	n := len(c.genes)
	if n < 2 {
		return
	}

	if g.rng.Float64() < g.config.MutationRate {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
	}

	if g.rng.Float64() < g.config.MutationRate*0.5 {
		i := g.rng.Intn(n)
		j := g.rng.Intn(n)
		if i > j {
			i, j = j, i
		}
		for i < j {
			c.genes[i], c.genes[j] = c.genes[j], c.genes[i]
			i++
			j--
		}
	}
}

func (g *geneticOptimizer) copyChromosome(c chromosome) chromosome {
	genes := make([]int, len(c.genes))
	copy(genes, c.genes)
	return chromosome{genes: genes, fitness: c.fitness}
}

// optimizeGenetic runs the genetic search with a fixed seed so that plans
// are reproducible.
func optimizeGenetic(book *model.OrderBook, eps float64) []openRoll {
	config := DefaultGeneticConfig()
	pieces := 0
	for i := 0; i < book.Len(); i++ {
		pieces += book.Quantity(i)
	}
	if pieces > 20 {
		config.Generations = 150
	}
	if pieces > 50 {
		config.Generations = 200
		config.PopulationSize = 80
	}
	return newGeneticOptimizer(book, config, eps, 42).optimize()
}
