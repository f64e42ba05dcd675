package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/shopfront/internal/catalog"
	"github.com/five82/shopfront/internal/selectors"
	"github.com/five82/shopfront/internal/state"
)

const (
	priceWidth    = 10
	categoryWidth = 18
	minTitleWidth = 12
)

func (m Model) renderMain() string {
	styles := m.theme.Styles()

	header := m.renderHeader(styles)
	footer := m.renderFooter(styles)

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	if m.detailOpen {
		body = m.renderDetail(styles)
	} else {
		body = m.renderList(styles, bodyHeight)
	}
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) renderHeader(styles Styles) string {
	products := fmt.Sprintf("Products (%d)", len(m.snapshot.Items))
	favorites := "Favorites"
	if n := len(m.snapshot.Favorites); n > 0 {
		favorites += " " + styles.Badge.Render(fmt.Sprint(n))
	}

	tabs := []string{styles.Tab.Render(products), styles.Tab.Render(favorites)}
	if m.view == ViewFavorites {
		tabs[1] = styles.TabOn.Render(favorites)
	} else {
		tabs[0] = styles.TabOn.Render(products)
	}

	title := styles.AccentText.Bold(true).Render("Shopfront")
	line := lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", tabs[0], tabs[1], "  ", m.renderStatus(styles))

	lines := []string{styles.Header.Render(line)}
	if m.snapshot.Failed() {
		reason := m.snapshot.Error
		if reason == "" {
			reason = state.DefaultFailureReason
		}
		lines = append(lines, styles.Danger.Render("Error: "+truncate(reason, m.width-24)+"  (r to retry)"))
	}
	if m.notice != "" {
		lines = append(lines, styles.Warning.Render(m.notice))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderStatus(styles Styles) string {
	switch m.snapshot.Status {
	case state.StatusLoading:
		return styles.Warning.Render("Loading...")
	case state.StatusSucceeded:
		return styles.MutedText.Render("Up to date")
	case state.StatusFailed:
		return styles.Danger.Render("Offline")
	default:
		return styles.MutedText.Render("Idle")
	}
}

func (m Model) renderFooter(styles Styles) string {
	var parts []string
	if m.searching || m.query != "" {
		parts = append(parts, m.search.View())
	}
	parts = append(parts, styles.Footer.Render(m.help.View(m.keys)+"  "+m.theme.Name))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderList(styles Styles, height int) string {
	items := m.visibleItems()
	if len(items) == 0 {
		return styles.MutedText.Render(m.emptyMessage())
	}

	titleWidth := m.width - priceWidth - categoryWidth - 6
	if titleWidth < minTitleWidth {
		titleWidth = minTitleWidth
	}

	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	end := start + height
	if end > len(items) {
		end = len(items)
	}

	favs := selectors.FavoriteIDs(m.snapshot).Lookup()
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		item := items[i]
		mark := "  "
		if _, ok := favs[item.ID]; ok {
			mark = "* "
		}
		row := mark +
			padRight(truncate(item.Title, titleWidth), titleWidth) + " " +
			padRight(item.PriceLabel(), priceWidth) + " " +
			truncate(item.CategoryLabel(), categoryWidth)
		switch {
		case i == m.cursor:
			row = styles.Selected.Render(row)
		case mark != "  ":
			row = styles.Favorite.Render(mark) + styles.Text.Render(strings.TrimPrefix(row, mark))
		default:
			row = styles.Text.Render(row)
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func (m Model) emptyMessage() string {
	switch {
	case m.snapshot.Loading() && len(m.snapshot.Items) == 0:
		return "Loading products..."
	case m.view == ViewFavorites:
		return "No favorites yet."
	case m.query != "":
		return "No products match your search."
	case m.snapshot.Failed():
		return "No products loaded."
	default:
		return "No products."
	}
}

func (m Model) renderDetail(styles Styles) string {
	item, ok := selectors.ItemByID(m.snapshot, m.detailID)
	if !ok {
		switch {
		case m.snapshot.Loading() && len(m.snapshot.Items) == 0:
			return styles.MutedText.Render("Loading product...")
		case m.snapshot.Failed():
			return styles.Danger.Render("Error: " + m.snapshot.Error)
		default:
			return styles.MutedText.Render("Product not found.")
		}
	}
	return styles.Pane.Render(m.detailBody(styles, item))
}

func (m Model) detailBody(styles Styles, item catalog.Item) string {
	width := m.width - 6
	if width < 20 {
		width = 20
	}

	lines := []string{
		styles.Text.Bold(true).Render(truncate(item.Title, width)),
		styles.AccentText.Render(item.PriceLabel()) + "  " + styles.MutedText.Render(item.CategoryLabel()),
	}
	if item.Rating != nil {
		lines = append(lines, styles.MutedText.Render("Rating "+item.RatingLabel()))
	}
	if item.ImageRef != "" {
		lines = append(lines, styles.MutedText.Render(truncate(item.ImageRef, width)))
	}
	lines = append(lines, "")
	for _, l := range wrapText(item.Description, width) {
		lines = append(lines, styles.Text.Render(l))
	}
	lines = append(lines, "")

	action := "Add to favorites (f)"
	if selectors.IsFavorite(m.snapshot, item.ID) {
		action = "Remove from favorites (f)"
	}
	lines = append(lines, styles.Favorite.Render(action))
	return strings.Join(lines, "\n")
}
