package rowan

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// TileCell is a tile grid coordinate.
type TileCell struct {
	Col, Row int
}

// TileMapData is the payload of a KindTileMap node: a sparse grid of
// tile IDs drawn from an atlas. Cells without an entry draw nothing;
// tile ID 0 means empty.
type TileMapData struct {
	// TileSize is the cell size in pixels before node scaling.
	TileSize Vec2

	atlas   *Atlas
	regions []TextureRegion // indexed by tile ID, entry 0 unused
	cells   map[TileCell]int
}

// NewTileMap creates a tile map node. Each name in tiles becomes a tile
// ID starting at 1, resolved to an atlas region; ID 0 stays empty.
func NewTileMap(name string, atlas *Atlas, tileSize Vec2, tiles ...string) *Node {
	n := &Node{name: name, Kind: KindTileMap}
	nodeDefaults(n)

	regions := make([]TextureRegion, len(tiles)+1)
	for i, tile := range tiles {
		regions[i+1] = atlas.Region(tile)
	}
	n.Tiles = &TileMapData{
		TileSize: tileSize,
		atlas:    atlas,
		regions:  regions,
		cells:    make(map[TileCell]int),
	}
	return n
}

// SetTile places a tile ID at a cell. ID 0 clears the cell; unknown IDs
// are dropped with a debug warning.
func (t *TileMapData) SetTile(col, row, id int) {
	if id == 0 {
		delete(t.cells, TileCell{Col: col, Row: row})
		return
	}
	if id < 0 || id >= len(t.regions) {
		debugLog("tile id %d out of range (have %d tiles)", id, len(t.regions)-1)
		return
	}
	t.cells[TileCell{Col: col, Row: row}] = id
}

// TileAt returns the tile ID at a cell, 0 when empty.
func (t *TileMapData) TileAt(col, row int) int {
	return t.cells[TileCell{Col: col, Row: row}]
}

// Fill places the same tile ID over a rectangular cell range.
func (t *TileMapData) Fill(col, row, cols, rows, id int) {
	for r := row; r < row+rows; r++ {
		for c := col; c < col+cols; c++ {
			t.SetTile(c, r, id)
		}
	}
}

// Clear removes every tile.
func (t *TileMapData) Clear() {
	clear(t.cells)
}

// TileCount returns the number of occupied cells.
func (t *TileMapData) TileCount() int { return len(t.cells) }

// WorldToMap converts a world position to the cell containing it.
func (n *Node) WorldToMap(p Vec2) TileCell {
	t := n.requireTiles()
	gs := absVec(n.globalScale)
	local := p.Sub(n.globalPosition)
	return TileCell{
		Col: int(math.Floor(local.X / (t.TileSize.X * gs.X))),
		Row: int(math.Floor(local.Y / (t.TileSize.Y * gs.Y))),
	}
}

// MapToWorld converts a cell to the world position of its top-left
// corner.
func (n *Node) MapToWorld(c TileCell) Vec2 {
	t := n.requireTiles()
	gs := absVec(n.globalScale)
	return Vec2{
		X: n.globalPosition.X + float64(c.Col)*t.TileSize.X*gs.X,
		Y: n.globalPosition.Y + float64(c.Row)*t.TileSize.Y*gs.Y,
	}
}

func (n *Node) requireTiles() *TileMapData {
	if n.Kind != KindTileMap || n.Tiles == nil {
		panic("rowan: not a tile map node")
	}
	return n.Tiles
}

// draw blits every occupied cell. Cells of one map never overlap, so
// iteration order does not matter.
func (t *TileMapData) draw(n *Node, screen *ebiten.Image, view Vec2) {
	if len(t.cells) == 0 {
		return
	}
	gs := absVec(n.globalScale)
	cw := t.TileSize.X * gs.X
	ch := t.TileSize.Y * gs.Y
	origin := n.globalPosition.Sub(view)

	a := float32(n.Color.A)
	var op ebiten.DrawImageOptions
	for cell, id := range t.cells {
		r := t.regions[id]
		img := t.atlas.pageImage(r)
		if r.Page != magentaPlaceholderPage {
			img = img.SubImage(regionBounds(r)).(*ebiten.Image)
		}

		op.GeoM.Reset()
		op.GeoM.Scale(cw/float64(r.Width), ch/float64(r.Height))
		op.GeoM.Translate(origin.X+float64(cell.Col)*cw, origin.Y+float64(cell.Row)*ch)
		op.ColorScale.Reset()
		op.ColorScale.Scale(float32(n.Color.R)*a, float32(n.Color.G)*a, float32(n.Color.B)*a, a)
		screen.DrawImage(img, &op)
	}
}
