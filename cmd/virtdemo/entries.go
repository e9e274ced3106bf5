package main

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/ayn2op/virtview"
)

type entry struct {
	ID    string
	Title string
	Body  string
}

var words = strings.Fields(`
	lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod
	tempor incididunt ut labore et dolore magna aliqua enim ad minim veniam
	quis nostrud exercitation ullamco laboris nisi aliquip ex ea commodo
	consequat duis aute irure in reprehenderit voluptate velit esse cillum
	fugiat nulla pariatur excepteur sint occaecat cupidatat non proident
	sunt culpa qui officia deserunt mollit anim id est laborum`)

// entryGenerator produces entries with bodies of widely varying length, so
// that row heights differ from the estimate in both directions.
type entryGenerator struct {
	rand *rand.Rand
	next int
}

func newEntryGenerator(seed uint64) *entryGenerator {
	return &entryGenerator{rand: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (g *entryGenerator) generate(n int) []entry {
	entries := make([]entry, 0, n)
	for range n {
		id := g.next
		g.next++

		// Mostly short bodies with an occasional long one.
		count := 2 + g.rand.IntN(12)
		if g.rand.IntN(8) == 0 {
			count += 40 + g.rand.IntN(120)
		}
		body := make([]string, count)
		for i := range body {
			body[i] = words[g.rand.IntN(len(words))]
		}

		entries = append(entries, entry{
			ID:    "entry-" + strconv.Itoa(id),
			Title: "#" + strconv.Itoa(id),
			Body:  strings.Join(body, " "),
		})
	}
	return entries
}

func renderEntry(e entry, _ int) virtview.Primitive {
	item := virtview.NewTextItem(e.Body)
	item.SetTitle(e.Title).
		SetTitleAlignment(virtview.AlignmentLeft).
		SetBorders(virtview.BordersLeft).
		SetBorderPadding(0, 1, 1, 0)
	return item
}
