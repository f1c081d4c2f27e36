package store_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jfc974-droid/order-management-system/orders"
	"github.com/jfc974-droid/order-management-system/orders/store"
)

// =============================================================================
// MEMORY DRIVE - Files
// =============================================================================

func TestDrive_FoldersAndFind(t *testing.T) {
	ctx := context.Background()
	d := store.NewDrive()

	// GIVEN: A root folder with a child folder
	root, found, err := orders.EnsureFolder(ctx, d, "Lincoln Orders", "")
	require.NoError(t, err)
	assert.False(t, found)
	child, _, err := orders.EnsureFolder(ctx, d, "Lincoln PDFs", root.ID)
	require.NoError(t, err)

	// WHEN: Ensuring the root again
	again, found, err := orders.EnsureFolder(ctx, d, "Lincoln Orders", "")
	require.NoError(t, err)

	// THEN: The existing folder is reused
	assert.True(t, found)
	assert.Equal(t, root.ID, again.ID)
	assert.Equal(t, []string{root.ID}, d.Parents(child.ID))

	listed, err := d.List(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Lincoln PDFs", listed[0].Name)
}

func TestDrive_UploadMoveDelete(t *testing.T) {
	ctx := context.Background()
	d := store.NewDrive()
	folder, err := d.CreateFolder(ctx, "out", "")
	require.NoError(t, err)

	f, err := d.Upload(ctx, "a.pdf", "", orders.MimePDF, []byte("data"))
	require.NoError(t, err)
	require.NoError(t, d.Move(ctx, f.ID, folder.ID))

	listed, _ := d.List(ctx, folder.ID)
	require.Len(t, listed, 1)
	data, ok := d.Data(f.ID)
	require.True(t, ok)
	assert.Equal(t, []byte("data"), data)

	require.NoError(t, d.Delete(ctx, f.ID))
	listed, _ = d.List(ctx, folder.ID)
	assert.Empty(t, listed)
	assert.ErrorIs(t, d.Delete(ctx, f.ID), orders.ErrFileNotFound)
}

// =============================================================================
// MEMORY DRIVE - Documents
// =============================================================================

func TestDrive_FillTemplate(t *testing.T) {
	ctx := context.Background()
	d := store.NewDrive()
	tpl := d.AddDocument("Order Template for PDF", store.OrderTemplate(3))

	// GIVEN: A copy of the template
	docID, err := d.Copy(ctx, tpl.ID, "Lincoln - Emma Smith")
	require.NoError(t, err)

	// WHEN: Replacing placeholders, inserting after the table, trimming rows
	require.NoError(t, d.ReplaceAll(ctx, docID, []orders.Replacement{
		{Placeholder: "{{School}}", Value: "Lincoln"},
		{Placeholder: "{{quantity1}}", Value: "2"},
		{Placeholder: "{{flavor name1}}", Value: "Butter"},
	}))
	table, found, err := d.FindTable(ctx, docID, "{{quantity", "{{flavor name")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 4, table.Rows)

	require.NoError(t, d.InsertText(ctx, docID, table.EndIndex, "Popcorn: 2 bags", orders.TextStyle{Bold: true}))
	table, _, _ = d.FindTable(ctx, docID, "Quantity")
	require.NoError(t, d.DeleteTableRows(ctx, docID, table, 2, 2))

	// THEN: The copy changed and the template did not
	doc, ok := d.Document(docID)
	require.True(t, ok)
	text := doc.Text()
	assert.Contains(t, text, "Lincoln Popcorn Fundraiser")
	assert.Contains(t, text, "2\tButter")
	assert.NotContains(t, text, "{{quantity2}}")
	assert.Equal(t, "Popcorn: 2 bags", doc.Blocks[table.EndIndex].Text)

	original, _ := d.Document(tpl.ID)
	assert.Contains(t, original.Text(), "{{School}}")
}

func TestDrive_ReplaceAllLeavesUnknownPlaceholders(t *testing.T) {
	ctx := context.Background()
	d := store.NewDrive()

	// GIVEN: A paragraph with an unknown placeholder and a wrong-case one
	doc := d.AddDocument("form", store.Document{Blocks: []store.Block{
		{Text: "{{Teacher}} {{school}} {{School}}"},
		{Cells: [][]string{{"{{School}}", "{{Grade}}"}}},
	}})

	// WHEN: Replacing only {{School}}
	require.NoError(t, d.ReplaceAll(ctx, doc.ID, []orders.Replacement{
		{Placeholder: "{{School}}", Value: "Lincoln"},
	}))

	// THEN: Matching is exact and case-sensitive; other placeholders survive
	got, ok := d.Document(doc.ID)
	require.True(t, ok)
	assert.Equal(t, "{{Teacher}} {{school}} Lincoln", got.Blocks[0].Text)
	assert.Equal(t, [][]string{{"Lincoln", "{{Grade}}"}}, got.Blocks[1].Cells)
}

func TestDrive_DeleteTableRowsOutOfRange(t *testing.T) {
	ctx := context.Background()
	d := store.NewDrive()
	tpl := d.AddDocument("t", store.OrderTemplate(1))
	table, _, err := d.FindTable(ctx, tpl.ID, "Quantity")
	require.NoError(t, err)

	assert.Error(t, d.DeleteTableRows(ctx, tpl.ID, table, 2, 1))
}

func TestDrive_ExportPDF(t *testing.T) {
	ctx := context.Background()
	d := store.NewDrive()
	tpl := d.AddDocument("t", store.OrderTemplate(2))

	pdf, err := d.ExportPDF(ctx, tpl.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	_, err = d.ExportPDF(ctx, "missing")
	assert.ErrorIs(t, err, orders.ErrFileNotFound)
}

func TestOrderTemplate_Placeholders(t *testing.T) {
	text := store.OrderTemplate(13).Text()
	for _, p := range []string{"{{Order Number}}", "{{Student name}}", "{{student name}}", "{{Grade}}", "{{Billing Name}}", "{{quantity13}}", "{{flavor name13}}"} {
		assert.True(t, strings.Contains(text, p), "missing %s", p)
	}
	assert.NotContains(t, text, "{{quantity14}}")
}
