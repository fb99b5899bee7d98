/*
Copyright © 2026 Paulo Suderio
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/suderio/arcanum/internal/document"
	"github.com/suderio/arcanum/internal/repository"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	browseTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#7D56F4")).
				Padding(0, 1).
				MarginBottom(1)

	reportBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(0, 1)

	resolvedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	rejectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F25D94"))
)

type componentItem string

func (c componentItem) Title() string       { return string(c) }
func (c componentItem) Description() string { return "" }
func (c componentItem) FilterValue() string { return string(c) }

type browseModel struct {
	loader   *repository.Loader
	system   string
	list     list.Model
	viewport viewport.Model
	width    int
	height   int
	showing  string
}

func newBrowseModel(loader *repository.Loader, system string, names []string) browseModel {
	items := make([]list.Item, len(names))
	for i, name := range names {
		items[i] = componentItem(name)
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	componentList := list.New(items, delegate, 30, 20)
	componentList.Title = "Components"
	componentList.SetShowStatusBar(false)
	componentList.SetFilteringEnabled(true)

	vp := viewport.New(0, 0)
	vp.SetContent("Select a component and press enter to resolve it.")

	return browseModel{
		loader:   loader,
		system:   system,
		list:     componentList,
		viewport: vp,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(30, msg.Height-4)
		m.viewport.Width = msg.Width - 38
		m.viewport.Height = msg.Height - 6
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(componentItem); ok {
				m.showing = string(item)
				m.viewport.SetContent(m.renderReport(string(item)))
				m.viewport.GotoTop()
			}
			return m, nil
		}
	}

	var listCmd, vpCmd tea.Cmd
	m.list, listCmd = m.list.Update(msg)
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(listCmd, vpCmd)
}

func (m browseModel) renderReport(name string) string {
	report, err := resolveComponent(m.loader, m.system, name)
	if err != nil {
		return rejectedStyle.Render(fmt.Sprintf("Error: %v", err))
	}

	var b strings.Builder
	if report.Resolved {
		b.WriteString(resolvedStyle.Render("RESOLVED") + "\n\n")
		out, err := document.Encode(report.Document)
		if err != nil {
			return rejectedStyle.Render(fmt.Sprintf("Error encoding document: %v", err))
		}
		b.Write(out)
	} else {
		b.WriteString(rejectedStyle.Render("REJECTED") + "\n\n")
		for _, issue := range report.Issues {
			b.WriteString(fmt.Sprintf("- %s\n", issue))
		}
	}
	return b.String()
}

func (m browseModel) View() string {
	title := browseTitleStyle.Render(fmt.Sprintf("Arcanum :: %s", m.system))
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.list.View(),
		reportBoxStyle.Render(m.viewport.View()),
	)
	return title + "\n" + body
}

var browseCmd = &cobra.Command{
	Use:   "browse <system>",
	Short: "Interactively browse and resolve components",
	Long:  `Opens a terminal UI listing the system's components; selecting one resolves it and shows the result or the rejection report.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		system := args[0]
		loader := repository.NewLoader(dataDirs())
		names, err := loader.Components(system)
		if err != nil {
			fmt.Printf("Error listing system %s: %v\n", system, err)
			os.Exit(1)
		}

		program := tea.NewProgram(newBrowseModel(loader, system, names), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			fmt.Printf("Error running browser: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}
