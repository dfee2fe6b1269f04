package extract_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoiceqc/internal/domain"
	"invoiceqc/internal/extract"
)

const sampleText = `Bestellung 4500123456 vom 15.01.2024
im Auftrag von ACME-EINKAUF

ABC Corporation medical equipment (Medizintechnik)
Industriestrasse 12, 80331 Muenchen

Kundenanschrift
Klinikum Musterstadt
Musterweg 5
12345 Musterstadt

Gewünschtes Lieferdatum: 20.01.2024
Zahlungsbedingungen: 30 Tage netto, 2,0% Skonto

Pos Artikel Preis Menge Einheit Gesamt
1 Infusionsbesteck 50,00 2 ST 100,00

Gesamtwert EUR 100,00
MwSt. 19% EUR 19,00
inkl. MwSt. EUR 119,00
`

func TestExtract_SampleDocument(t *testing.T) {
	e := extract.NewExtractor()
	inv, err := e.Extract(sampleText, nil)
	require.NoError(t, err)

	assert.Equal(t, "4500123456", inv.OrderNumber)
	assert.Equal(t, "INV-4500123456", inv.InvoiceNumber)
	assert.Equal(t, "ACME-EINKAUF", inv.OrderReference)
	assert.Equal(t, "15.01.2024", inv.InvoiceDate)
	assert.Equal(t, "20.01.2024", inv.DeliveryDate)
	assert.Equal(t, "30 Tage netto, 2,0% Skonto", inv.PaymentTerms)
	assert.Equal(t, "medical equipment (Medizintechnik)", inv.SellerName)
	assert.Equal(t, "Klinikum Musterstadt", inv.BuyerName)
	assert.Equal(t, "Musterweg 5\n12345 Musterstadt", inv.BuyerAddress)
	assert.Equal(t, "EUR", inv.Currency)

	require.NotNil(t, inv.NetTotal)
	assert.InDelta(t, 100.0, *inv.NetTotal, 0.001)
	require.NotNil(t, inv.TaxAmount)
	assert.InDelta(t, 19.0, *inv.TaxAmount, 0.001)
	require.NotNil(t, inv.GrossTotal)
	assert.InDelta(t, 119.0, *inv.GrossTotal, 0.001)

	require.Len(t, inv.LineItems, 1)
	item := inv.LineItems[0]
	assert.Equal(t, 1, item.Position)
	assert.Equal(t, "Infusionsbesteck", item.Description)
	assert.InDelta(t, 50.0, item.UnitPrice, 0.001)
	assert.InDelta(t, 2.0, item.Quantity, 0.001)
	assert.Equal(t, "ST", item.Unit)
	assert.InDelta(t, 100.0, item.LineTotal, 0.001)
}

func TestExtract_EmptyDocument(t *testing.T) {
	e := extract.NewExtractor()

	t.Run("blank", func(t *testing.T) {
		_, err := e.Extract("   \n\t  ", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrEmptyDocument)
	})

	t.Run("too_short", func(t *testing.T) {
		_, err := e.Extract("abc", nil)
		assert.ErrorIs(t, err, domain.ErrEmptyDocument)
	})
}

func TestExtract_MissingFieldsStayAbsent(t *testing.T) {
	e := extract.NewExtractor()
	inv, err := e.Extract("Dies ist ein Dokument ohne relevante Felder.", nil)
	require.NoError(t, err)

	assert.Empty(t, inv.OrderNumber)
	assert.Empty(t, inv.InvoiceNumber)
	assert.Empty(t, inv.BuyerName)
	assert.Nil(t, inv.NetTotal)
	assert.Nil(t, inv.TaxAmount)
	assert.Nil(t, inv.GrossTotal)
	assert.Equal(t, "EUR", inv.Currency)
}

func TestExtract_InvoiceNumberFallback(t *testing.T) {
	e := extract.NewExtractor()
	inv, err := e.Extract("Rechnung RE-2024-001 ohne Bestellnummer im Text", nil)
	require.NoError(t, err)

	assert.Empty(t, inv.OrderNumber)
	assert.Equal(t, "RE-2024-001", inv.InvoiceNumber)
}

func TestExtract_SofortDelivery(t *testing.T) {
	e := extract.NewExtractor()
	inv, err := e.Extract("Bestellung 4500000001 vom 01.02.2024\nLieferdatum: sofort\n", nil)
	require.NoError(t, err)
	assert.Equal(t, "sofort", inv.DeliveryDate)
}

func TestExtract_GridTierPreferred(t *testing.T) {
	e := extract.NewExtractor()

	grid := domain.Grid{
		{"Pos", "Artikel", "Menge", "Einheit", "Preis", "Gesamt"},
		{"1", "Verbandsmaterial", "10", "PK", "12,50", "125,00"},
		{"2", "Kanuelen 100 St 1 PK = 100 ST", "2", "PK", "30,00", "60,00"},
	}

	inv, err := e.Extract(sampleText, []domain.Grid{grid})
	require.NoError(t, err)

	require.Len(t, inv.LineItems, 2)
	first := inv.LineItems[0]
	assert.Equal(t, 1, first.Position)
	assert.Equal(t, "Verbandsmaterial", first.Description)
	assert.InDelta(t, 12.5, first.UnitPrice, 0.001)
	assert.InDelta(t, 10.0, first.Quantity, 0.001)
	assert.Equal(t, "PK", first.Unit)
	assert.InDelta(t, 125.0, first.LineTotal, 0.001)
}

func TestExtract_GridRowsWithoutAmountsRejected(t *testing.T) {
	e := extract.NewExtractor()

	grid := domain.Grid{
		{"Pos", "Artikel", "Preis"},
		{"1", "Artikel ohne Zahlen", "n/a"},
	}

	inv, err := e.Extract(sampleText, []domain.Grid{grid})
	require.NoError(t, err)

	// The grid yields nothing, so the text tier takes over.
	require.Len(t, inv.LineItems, 1)
	assert.Equal(t, "Infusionsbesteck", inv.LineItems[0].Description)
}

func TestExtract_SwappedQuantityAndPrice(t *testing.T) {
	e := extract.NewExtractor()

	text := strings.Join([]string{
		"Bestellung 4500000002 vom 01.03.2024",
		"Pos Artikel Preis Menge Einheit Gesamt",
		"1 Schlauchsystem 4 12,505 ST 50,02",
		"Gesamtwert EUR 50,02",
	}, "\n")

	inv, err := e.Extract(text, nil)
	require.NoError(t, err)

	require.Len(t, inv.LineItems, 1)
	item := inv.LineItems[0]
	assert.InDelta(t, 12.505, item.UnitPrice, 0.0001)
	assert.InDelta(t, 4.0, item.Quantity, 0.0001)
}

func TestExtract_LineItemsStopAtTotals(t *testing.T) {
	e := extract.NewExtractor()

	text := strings.Join([]string{
		"Bestellung 4500000003 vom 01.03.2024",
		"Pos Artikel Preis Menge Einheit Gesamt",
		"1 Spritzen 10,00 5 ST 50,00",
		"Gesamtwert EUR 50,00",
		"2 Geisterposition 10,00 5 ST 50,00",
	}, "\n")

	inv, err := e.Extract(text, nil)
	require.NoError(t, err)
	require.Len(t, inv.LineItems, 1)
	assert.Equal(t, "Spritzen", inv.LineItems[0].Description)
}

func TestExtract_LastResortTier(t *testing.T) {
	e := extract.NewExtractor()

	text := strings.Join([]string{
		"Bestellung 4500000004 vom 01.03.2024",
		"Pos Artikel Preis Menge Einheit Gesamt",
		"1 " + strings.Repeat("Langbeschreibung ", 5) + "ohne Struktur 99,90",
	}, "\n")

	inv, err := e.Extract(text, nil)
	require.NoError(t, err)

	require.Len(t, inv.LineItems, 1)
	item := inv.LineItems[0]
	assert.Equal(t, 1, item.Position)
	assert.LessOrEqual(t, len([]rune(item.Description)), 50)
	assert.InDelta(t, 1.0, item.Quantity, 0.001)
	assert.InDelta(t, 99.9, item.UnitPrice, 0.001)
	assert.InDelta(t, 99.9, item.LineTotal, 0.001)
}

func TestExtract_TabsNormalized(t *testing.T) {
	e := extract.NewExtractor()
	inv, err := e.Extract("Bestellung\t4500000005\tvom\t05.03.2024", nil)
	require.NoError(t, err)
	assert.Equal(t, "4500000005", inv.OrderNumber)
	assert.Equal(t, "05.03.2024", inv.InvoiceDate)
}

func TestInvoiceRecord_AbsentFieldsAreNil(t *testing.T) {
	inv := &domain.Invoice{Currency: "EUR"}
	rec := inv.Record()

	assert.Nil(t, rec["order_number"])
	assert.Nil(t, rec["net_total"])
	assert.Equal(t, "EUR", rec["currency"])

	items, ok := rec["line_items"].([]any)
	require.True(t, ok)
	assert.Empty(t, items)
}
