package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
)

var (
	replyStyle = lipgloss.NewStyle().
			Padding(0, 1).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	focusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	priceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	discountStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))

	roleStyles = map[contractx.Role]lipgloss.Style{
		contractx.RoleUser:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
		contractx.RoleAssistant: lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Bold(true),
	}
)

func renderItem(item contractx.Item) string {
	var b strings.Builder
	b.WriteString(idStyle.Render(item.ItemID))
	b.WriteString("  ")
	b.WriteString(item.ItemName)
	b.WriteString("  ")
	b.WriteString(priceStyle.Render(fmt.Sprintf("$%.2f", item.Price)))
	fmt.Fprintf(&b, "  qty %d", item.ItemQuantity)
	if item.MaximumDiscount > 0 {
		b.WriteString("  ")
		b.WriteString(discountStyle.Render(fmt.Sprintf("%.0f%% off", item.DiscountPercent())))
	}
	return b.String()
}

func renderResult(w io.Writer, res contractx.QueryResult) {
	fmt.Fprintln(w, replyStyle.Render(res.Response))
	if res.ItemData != nil {
		fmt.Fprintln(w, focusStyle.Render("Currently discussing"))
		fmt.Fprintln(w, "  "+renderItem(*res.ItemData))
	}
	if len(res.Items) > 0 {
		fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("Matched items (%d)", len(res.Items))))
		for _, item := range res.Items {
			fmt.Fprintln(w, "  "+renderItem(item))
		}
	}
}
