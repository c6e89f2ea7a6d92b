// Command pathview renders a level's walkability grid and a sample search in
// the terminal. Useful for eyeballing level edits and search behavior without
// starting the server.
//
// Usage:
//
//	pathview [level] [startX startY goalX goalY]
//
// With no arguments it lists the bundled levels. With only a level name it
// picks the corners closest to walkable cells as endpoints.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"shadowstep-server/levels"
	"shadowstep-server/pathfinding"
	game "shadowstep-server/src"
)

var (
	styleWall = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleFloor = lipgloss.NewStyle().
			Foreground(lipgloss.Color("236"))

	styleVisited = lipgloss.NewStyle().
			Foreground(lipgloss.Color("94"))

	stylePath = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Bold(true)

	styleEndpoint = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")).
			Bold(true)

	styleWaypoint = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")).
			Bold(true)

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

func main() {
	if len(os.Args) < 2 {
		names, err := levels.Names()
		if err != nil {
			fail("listing bundled levels: %v", err)
		}
		fmt.Println("Bundled levels:")
		for _, name := range names {
			fmt.Println("  " + name)
		}
		return
	}

	lvl, err := levels.Load(os.Args[1])
	if err != nil {
		fail("loading level %q: %v", os.Args[1], err)
	}

	grid := pathfinding.NewGrid(lvl.Width, lvl.Height, lvl.CellSize, pathfinding.Point{}, game.NewLevelObstacleQuery(lvl))
	finder := pathfinding.NewPathfinder(grid)

	start, goal := endpoints(grid)
	if len(os.Args) >= 6 {
		start, goal = parseEndpoints(os.Args[2:6])
	}

	startCell, ok := grid.CellAt(start.X, start.Y)
	if !ok {
		fail("start (%d,%d) is outside the grid", start.X, start.Y)
	}
	goalCell, ok := grid.CellAt(goal.X, goal.Y)
	if !ok {
		fail("goal (%d,%d) is outside the grid", goal.X, goal.Y)
	}

	cells, err := finder.FindPathCells(startCell, goalCell)
	if err != nil {
		fmt.Println(styleError.Render(fmt.Sprintf("no path from (%d,%d) to (%d,%d): %v", start.X, start.Y, goal.X, goal.Y, err)))
	}
	simplified := pathfinding.SimplifyPath(cells)

	fmt.Printf("%s: %dx%d, search visited %d cells, path %d cells (%d waypoints)\n\n",
		lvl.Name, lvl.Width, lvl.Height, len(finder.Visited()), len(cells), len(simplified))
	fmt.Println(render(grid, finder, simplified, start, goal))
}

// endpoints picks the walkable cells nearest the top-left and bottom-right
// corners.
func endpoints(grid *pathfinding.Grid) (pathfinding.PointI, pathfinding.PointI) {
	start := nearestWalkable(grid, pathfinding.PointI{X: 0, Y: 0})
	goal := nearestWalkable(grid, pathfinding.PointI{X: grid.Width() - 1, Y: grid.Height() - 1})
	return start, goal
}

func nearestWalkable(grid *pathfinding.Grid, from pathfinding.PointI) pathfinding.PointI {
	best := from
	bestDist := -1
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			c, _ := grid.CellAt(x, y)
			if !c.Walkable {
				continue
			}
			dx, dy := x-from.X, y-from.Y
			dist := dx*dx + dy*dy
			if bestDist < 0 || dist < bestDist {
				best = pathfinding.PointI{X: x, Y: y}
				bestDist = dist
			}
		}
	}
	return best
}

func parseEndpoints(args []string) (pathfinding.PointI, pathfinding.PointI) {
	vals := make([]int, 4)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			fail("bad coordinate %q: %v", a, err)
		}
		vals[i] = v
	}
	return pathfinding.PointI{X: vals[0], Y: vals[1]}, pathfinding.PointI{X: vals[2], Y: vals[3]}
}

func render(grid *pathfinding.Grid, finder *pathfinding.Pathfinder, waypoints []*pathfinding.Cell, start, goal pathfinding.PointI) string {
	visited := make(map[pathfinding.PointI]bool)
	for _, c := range finder.Visited() {
		visited[c.Coord] = true
	}
	onPath := make(map[pathfinding.PointI]bool)
	for _, c := range finder.LastPath() {
		onPath[c.Coord] = true
	}
	onWaypoint := make(map[pathfinding.PointI]bool)
	for _, c := range waypoints {
		onWaypoint[c.Coord] = true
	}

	var b strings.Builder
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			p := pathfinding.PointI{X: x, Y: y}
			cell, _ := grid.CellAt(x, y)
			switch {
			case p == start || p == goal:
				b.WriteString(styleEndpoint.Render("@ "))
			case onWaypoint[p]:
				b.WriteString(styleWaypoint.Render("o "))
			case onPath[p]:
				b.WriteString(stylePath.Render("* "))
			case visited[p]:
				b.WriteString(styleVisited.Render("~ "))
			case !cell.Walkable:
				b.WriteString(styleWall.Render("# "))
			default:
				b.WriteString(styleFloor.Render(". "))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func fail(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, styleError.Render(fmt.Sprintf(format, args...)))
	os.Exit(1)
}
