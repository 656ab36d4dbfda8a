package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/librarydb/library-web/internal/domain"
	"github.com/librarydb/library-web/internal/service"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Bold(true).Width(18)
)

func newBooksCmd(a *app) *cobra.Command {
	var withAuthors bool

	cmd := &cobra.Command{
		Use:   "books",
		Short: "List the books of the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			variant := service.VariantSimple
			if withAuthors {
				variant = service.VariantTable
			}

			books, err := a.catalog.List(cmd.Context(), variant)
			if err != nil {
				fmt.Fprintln(a.errOut, service.ListError(variant, err))
				return reported(err)
			}

			if len(books) == 0 {
				fmt.Fprintln(a.out, "The library has no books yet.")
				return nil
			}
			if withAuthors {
				fmt.Fprintln(a.out, booksTable(books))
				return nil
			}
			for _, b := range books {
				fmt.Fprintf(a.out, "%d\t%s\n", b.ID, b.Title)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&withAuthors, "table", "t", false, "Show year, genre and authors of every book")
	return cmd
}

func booksTable(books []domain.Book) string {
	rows := make([][]string, 0, len(books))
	for _, b := range books {
		rows = append(rows, []string{
			strconv.Itoa(b.ID),
			b.Title,
			strconv.Itoa(b.PublicationYear),
			b.Genre,
			b.AuthorsDisplay(),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("ID", "Title", "Publication Year", "Genre", "Authors").
		Rows(rows...).
		String()
}

func newBookCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "book ID",
		Short: "Show the details of one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := a.catalog.Get(cmd.Context(), args[0])
			if err != nil {
				fmt.Fprintln(a.errOut, service.DetailError(err))
				return reported(err)
			}

			fmt.Fprintln(a.out, labelStyle.Render("Title")+book.Title)
			fmt.Fprintln(a.out, labelStyle.Render("Publication Year")+strconv.Itoa(book.PublicationYear))
			fmt.Fprintln(a.out, labelStyle.Render("Genre")+book.Genre)
			fmt.Fprintln(a.out, labelStyle.Render("Authors")+book.AuthorsDisplay())
			return nil
		},
	}
}

func newAddBookCmd(a *app) *cobra.Command {
	var (
		form    service.BookForm
		authors []string
	)

	cmd := &cobra.Command{
		Use:   "add-book",
		Short: "Add a book with its authors",
		Example: `  librarian add-book --title "Good Omens" --year 1990 --genre Fantasy \
    --author "Terry Pratchett" --author "Neil Gaiman"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form.Authors = form.Authors[:0]
			for _, name := range authors {
				form.Authors = append(form.Authors, parseAuthor(name))
			}

			if _, err := a.books.Add(cmd.Context(), form); err != nil {
				return reported(err)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&form.Title, "title", "", "Book title")
	flags.StringVar(&form.PublicationYear, "year", "", "Publication year")
	flags.StringVar(&form.Genre, "genre", "", "Genre")
	flags.StringArrayVar(&authors, "author", nil, `Author as "First Last" or "Last, First"; repeat for more authors`)
	return cmd
}

// parseAuthor splits "Last, First" at the comma and "First Last" at the last space.
func parseAuthor(name string) domain.Author {
	name = strings.TrimSpace(name)
	if last, first, ok := strings.Cut(name, ","); ok {
		return domain.Author{FirstName: strings.TrimSpace(first), LastName: strings.TrimSpace(last)}
	}
	if i := strings.LastIndex(name, " "); i >= 0 {
		return domain.Author{FirstName: strings.TrimSpace(name[:i]), LastName: strings.TrimSpace(name[i+1:])}
	}
	return domain.Author{FirstName: name}
}
