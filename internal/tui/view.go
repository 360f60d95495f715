package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/user/shopfront/internal/catalog"
	"github.com/user/shopfront/internal/flight"
	"github.com/user/shopfront/internal/types"
)

func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "loading..."
	}
	l := m.layout()

	var lines []string
	lines = append(lines, m.viewHeader(), m.viewTabs(), "")
	lines = append(lines, fit(m.viewGrid(l), l.height-headerHeight-l.panelHeight(), l.width)...)
	if l.expanded {
		lines = append(lines, m.viewExpanded(l)...)
	} else {
		lines = append(lines, m.viewPanel()...)
	}

	screen := strings.Join(lines, "\n")
	if f := m.snap.Flight; f != nil {
		screen = m.drawFlight(screen, l, f)
	}
	return screen
}

// fit pads or cuts block to exactly n lines no wider than width.
func fit(block string, n, width int) []string {
	out := make([]string, 0, n)
	if block != "" {
		for _, line := range strings.Split(block, "\n") {
			if len(out) == n {
				break
			}
			out = append(out, ansi.Truncate(line, width, ""))
		}
	}
	for len(out) < n {
		out = append(out, "")
	}
	return out
}

func (m Model) viewHeader() string {
	title := m.styles.Title.Render("SHOPFRONT")
	badge := m.badge()
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + badge
}

func (m Model) viewTabs() string {
	tabs := make([]string, 0, len(catalog.Categories))
	for i, c := range catalog.Categories {
		if i == m.category {
			tabs = append(tabs, m.styles.ActiveTab.Render(c))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(c))
		}
	}
	return ansi.Truncate(lipgloss.JoinHorizontal(lipgloss.Top, tabs...), m.width, "…")
}

func (m Model) viewGrid(l layout) string {
	if len(m.products) == 0 {
		return m.styles.Hint.Render("상품이 없습니다")
	}
	cw := l.cardWidth()
	inner := cw - 4 // border and padding

	var rows []string
	start := l.scroll * gridColumns
	end := start + l.gridRows()*gridColumns
	if end > len(m.products) {
		end = len(m.products)
	}
	for i := start; i < end; i += gridColumns {
		var cards []string
		for j := i; j < i+gridColumns && j < end; j++ {
			cards = append(cards, m.viewCard(m.products[j], inner))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return strings.Join(rows, "\n")
}

func (m Model) viewCard(p catalog.Product, inner int) string {
	lines := []string{
		m.styles.Brand.Render(p.Brand) + " " + p.Name,
		m.styles.Discount.Render(p.DiscountLabel()) + " " + m.styles.Price.Render(p.PriceLabel()),
		m.styles.Heart.Render(fmt.Sprintf("♥ %d", p.Hearts)) + m.styles.Meta.Render(fmt.Sprintf("  ★ %.1f (%d)", p.Rating, p.Reviews)),
	}
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, inner, "…")
	}
	return m.styles.Card.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

func (m Model) rule() string {
	return m.styles.Rule.Render(strings.Repeat("─", m.width))
}

func (m Model) attachmentIndicator() string {
	if len(m.image) > 0 {
		return "✅"
	}
	return "📷"
}

func (m Model) statusLine() string {
	switch {
	case m.status != "" && m.failed:
		return m.styles.Error.Render(m.status)
	case m.snap.Phase == types.PhaseLoading:
		return m.spinner.View() + " " + m.styles.Loading.Render(LoadingText)
	case m.snap.Phase == types.PhaseResultCollapsed:
		return m.styles.Banner.Render(BannerText) + m.styles.Hint.Render("  (ctrl+e)")
	case m.status != "":
		return m.styles.Hint.Render(m.status)
	default:
		return m.styles.Hint.Render("enter 추천받기 · /image <파일> 사진 첨부 · tab 카테고리")
	}
}

func (m Model) viewPanel() []string {
	return []string{
		m.rule(),
		ansi.Truncate(m.statusLine(), m.width, "…"),
		ansi.Truncate(m.attachmentIndicator()+" "+m.input.View(), m.width, ""),
	}
}

func (m Model) viewExpanded(l layout) []string {
	heading := m.styles.Heading.Render(Heading)
	closeLabel := m.styles.Hint.Render(CloseLabel + " (esc)")
	gap := l.width - lipgloss.Width(heading) - lipgloss.Width(closeLabel) - 1
	if gap < 1 {
		gap = 1
	}

	tw := l.tileWidth()
	tiles := make([]string, 0, len(m.snap.Results))
	for i, r := range m.snap.Results {
		label := ansi.Truncate(fmt.Sprintf("%d %s", i+1, r), tw-2, "…")
		tiles = append(tiles, m.styles.Tile.Width(tw-2).Render(label))
		if i < len(m.snap.Results)-1 {
			tiles = append(tiles, strings.Repeat(" ", tileGap))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
	tileLines := fit(row, 3, l.width-tileMarginLeft)
	for i := range tileLines {
		tileLines[i] = strings.Repeat(" ", tileMarginLeft) + tileLines[i]
	}

	hint := m.styles.Hint.Render(fmt.Sprintf("1-%d 장바구니에 담기 · ctrl+k 취소", len(m.snap.Results)))
	if m.status != "" {
		hint = m.statusLine()
	}

	out := []string{m.rule(), " " + heading + strings.Repeat(" ", gap) + closeLabel}
	out = append(out, tileLines...)
	return append(out, ansi.Truncate(hint, l.width, "…"))
}

// drawFlight places the flying item where its animation is now. Keyframes
// are in document coordinates, so the current scroll is subtracted.
func (m Model) drawFlight(screen string, l layout, f *types.Flight) string {
	kf := flight.Interpolate(f.Animation, m.store.Now().Sub(f.LaunchedAt))

	marker, style := "[🛍]", m.styles.Flight
	if kf.Scale < 0.6 {
		marker = "🛍"
	}
	if kf.Opacity < 0.5 {
		style = m.styles.Fading
	}
	w := lipgloss.Width(marker)
	row := int(math.Round(kf.Rect.CenterY() - l.scrollY()))
	col := int(math.Round(kf.Rect.CenterX())) - w/2
	if col > l.width-w {
		col = l.width - w
	}
	return overlay(screen, style.Render(marker), row, col)
}
