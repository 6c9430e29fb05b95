package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/routemark/routemark/internal/config"
	"github.com/routemark/routemark/internal/errors"
	"github.com/routemark/routemark/internal/templates"
)

func initCmd() *cobra.Command {
	var (
		templateName string
		title        string
		description  string
	)

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new routemark project",
		Long: `Create a new routemark project in the given directory.

Writes routemark.json and starter content. With no argument the
current directory is used.

Templates:
  minimal   A single welcome document
  full      Starter site with an about page and list channels (default)

Examples:
  routemark init
  routemark init my-site
  routemark init my-site --template=minimal`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(dir, templateName, title, description)
		},
	}

	cmd.Flags().StringVarP(&templateName, "template", "t", "full", "Content template (minimal, full)")
	cmd.Flags().StringVar(&title, "title", "", "Site title (default derived from the directory name)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Site description")

	return cmd
}

func runInit(dir, templateName, title, description string) error {
	printBanner()
	fmt.Println("  Creating a new routemark project...")
	fmt.Println()

	projectDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	name := filepath.Base(projectDir)

	// Refuse to clobber an existing project
	if config.Exists(projectDir) {
		return errors.New("E102").
			WithDetail("'" + dir + "' already contains routemark.json").
			WithSuggestion("Run routemark serve to start the existing project")
	}

	tmpl, err := templates.Get(templateName)
	if err != nil {
		return err
	}

	if title == "" {
		title = titleFromName(name)
	}
	if description == "" {
		description = "A routemark site"
	}

	created := false
	if _, err := os.Stat(projectDir); os.IsNotExist(err) {
		info("Creating project directory...")
		if err := os.MkdirAll(projectDir, 0755); err != nil {
			return err
		}
		created = true
	}

	info("Writing content from the '%s' template...", templateName)
	if err := tmpl.Create(projectDir, templates.Config{
		ProjectName: name,
		Title:       title,
		Description: description,
	}); err != nil {
		// Clean up on error, but only a directory we made ourselves
		if created {
			os.RemoveAll(projectDir)
		}
		return err
	}

	info("Writing routemark.json...")
	cfg := config.New()
	cfg.Name = name
	cfg.Title = title
	if len(tmpl.Rules) > 0 {
		cfg.Rules = tmpl.Rules
	}
	if err := cfg.SaveTo(filepath.Join(projectDir, "routemark.json")); err != nil {
		if created {
			os.RemoveAll(projectDir)
		}
		return err
	}

	// Print success message
	fmt.Println()
	success("Created %s/", name)
	fmt.Println()
	fmt.Println("  To get started:")
	fmt.Println()
	if dir != "." {
		fmt.Printf("    cd %s\n", dir)
	}
	fmt.Println("    routemark serve --dev")
	fmt.Println()
	fmt.Printf("  Your site will be running at http://%s:%d\n", config.DefaultHost, config.DefaultPort)
	fmt.Println()

	return nil
}

// titleFromName turns a directory name like "release-notes" into
// "Release Notes".
func titleFromName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '.'
	})
	if len(words) == 0 {
		return "routemark"
	}
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
