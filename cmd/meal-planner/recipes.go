package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"meal-planner/internal/recipe"
)

func (c *cli) recipesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Manage the recipe catalog",
	}

	var (
		in              recipe.Input
		ingredientLines []string
		ingredientsFile string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a recipe",
		Example: `  meal-planner recipes add --title "Beef Stir Fry" --servings 4 --prep 20 \
    --ingredient "1 lb Beef" --ingredient "2 tbsp Soy Sauce" --tag "High Iron"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(ingredientLines, "\n")
			if ingredientsFile != "" {
				data, err := os.ReadFile(ingredientsFile)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", ingredientsFile, err)
				}
				text += "\n" + string(data)
			}
			ingredients, err := recipe.ParseIngredients(text)
			if err != nil {
				return err
			}
			in.Ingredients = ingredients

			rec, err := c.app.AddRecipe(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q (%s) with %d ingredients\n", rec.Title, rec.ID, len(rec.Ingredients))
			return nil
		},
	}
	add.Flags().StringVar(&in.Title, "title", "", "Recipe title")
	add.Flags().IntVar(&in.Servings, "servings", 4, "Servings the quantities are written for")
	add.Flags().IntVar(&in.PrepTimeMinutes, "prep", 30, "Preparation time in minutes")
	add.Flags().StringVar(&in.SourceURL, "url", "", "Source URL")
	add.Flags().StringArrayVarP(&ingredientLines, "ingredient", "i", nil, `Ingredient line such as "1/2 cup Rice" (repeatable)`)
	add.Flags().StringVar(&ingredientsFile, "ingredients-file", "", "File with one ingredient per line")
	add.Flags().StringSliceVar(&in.Tags, "tag", nil, "Tag (repeatable)")
	_ = add.MarkFlagRequired("title")

	var filter string
	list := &cobra.Command{
		Use:   "list",
		Short: "List recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			recipes, err := c.app.ListRecipes(cmd.Context(), recipe.ParseFilter(filter))
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tPREP\tDIFFICULTY\tSERVINGS\tTAGS")
			for _, r := range recipes {
				fmt.Fprintf(tw, "%s\t%s\t%d min\t%s\t%d\t%s\n",
					r.ID, r.Title, r.PrepTimeMinutes, recipe.Difficulty(r.PrepTimeMinutes), r.Servings, strings.Join(r.Tags, ", "))
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&filter, "filter", string(recipe.FilterAll), "all, under60 or highIron")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.DeleteRecipe(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}

	imp := &cobra.Command{
		Use:   "import <file.json>...",
		Short: "Import recipes from JSON files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			total := 0
			for _, path := range args {
				n, err := c.app.ImportRecipeFile(cmd.Context(), path)
				if err != nil {
					return err
				}
				total += n
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d recipes\n", total)
			return nil
		},
	}

	cmd.AddCommand(add, list, del, imp)
	return cmd
}
