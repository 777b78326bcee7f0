package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/malick/facture-mcp/internal/currency"
	"github.com/malick/facture-mcp/internal/invoice"
	"github.com/malick/facture-mcp/internal/layout"
	"github.com/malick/facture-mcp/internal/logger"
	"github.com/malick/facture-mcp/internal/models"
	"github.com/malick/facture-mcp/internal/render"
	"github.com/malick/facture-mcp/internal/session"
	"github.com/malick/facture-mcp/internal/store"
)

// maxLogoSize caps uploaded logo files at 2 MB.
const maxLogoSize = 2 * 1024 * 1024

type Handler struct {
	store   *store.Store
	session *session.Session
	log     *logger.Logger
}

// RegisterTools registers the closed set of user actions with the MCP
// server. Each tool is a state transition on the session draft or a
// projection of it; nothing else mutates the model.
func RegisterTools(server *mcp.Server, st *store.Store, sess *session.Session, log *logger.Logger) {
	h := &Handler{store: st, session: sess, log: log}

	// Set Client tool
	type setClientArgs struct {
		FirstName string `json:"first_name" jsonschema:"Client first name"`
		LastName  string `json:"last_name" jsonschema:"Client last name"`
		Phone     string `json:"phone" jsonschema:"Client phone number"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_client",
		Description: "Set the client the current invoice is billed to",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args setClientArgs) (*mcp.CallToolResult, any, error) {
		sess.SetClient(models.ClientInfo{
			FirstName: args.FirstName,
			LastName:  args.LastName,
			Phone:     args.Phone,
		})

		return textResult(fmt.Sprintf("Client défini: %s (%s)", sess.Client().FullName(), args.Phone)), nil, nil
	})

	// Add Item tool
	type addItemArgs struct {
		Name      string  `json:"name" jsonschema:"Item name"`
		Quantity  float64 `json:"quantity" jsonschema:"Quantity (must be > 0 for the item to count)"`
		UnitPrice float64 `json:"unit_price" jsonschema:"Unit price (must be >= 0 for the item to count)"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_item",
		Description: "Add a line item to the current invoice",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args addItemArgs) (*mcp.CallToolResult, any, error) {
		item := sess.AddItem(args.Name, args.Quantity, args.UnitPrice)

		text := fmt.Sprintf("Article ajouté: %s (ID: %s)", item.Name, item.ID)
		if !item.Qualifies() {
			text += "\nNote: article incomplet, il ne compte pas encore dans les totaux."
		}

		return textResult(text), item, nil
	})

	// Update Item tool
	type updateItemArgs struct {
		ItemID    string   `json:"item_id" jsonschema:"Line item ID"`
		Name      *string  `json:"name,omitempty" jsonschema:"New item name (optional)"`
		Quantity  *float64 `json:"quantity,omitempty" jsonschema:"New quantity (optional)"`
		UnitPrice *float64 `json:"unit_price,omitempty" jsonschema:"New unit price (optional)"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "update_item",
		Description: "Edit a line item's name, quantity or unit price",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args updateItemArgs) (*mcp.CallToolResult, any, error) {
		if args.Name == nil && args.Quantity == nil && args.UnitPrice == nil {
			return nil, nil, fmt.Errorf("no fields provided to update")
		}

		item, err := sess.UpdateItem(args.ItemID, args.Name, args.Quantity, args.UnitPrice)
		if err != nil {
			return nil, nil, err
		}

		return textResult(fmt.Sprintf("Article mis à jour: %s", item.Name)), item, nil
	})

	// Remove Item tool
	type removeItemArgs struct {
		ItemID string `json:"item_id" jsonschema:"Line item ID to remove"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "remove_item",
		Description: "Remove a line item from the current invoice",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args removeItemArgs) (*mcp.CallToolResult, any, error) {
		item, err := sess.RemoveItem(args.ItemID)
		if err != nil {
			return nil, nil, err
		}

		return textResult(fmt.Sprintf("Article supprimé: %s", item.Name)), nil, nil
	})

	// Clear Items tool
	type clearItemsArgs struct{}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "clear_items",
		Description: "Remove all line items from the current invoice",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args clearItemsArgs) (*mcp.CallToolResult, any, error) {
		count := len(sess.Items())
		sess.ClearItems()

		return textResult(fmt.Sprintf("%d article(s) supprimé(s)", count)), nil, nil
	})

	// Duplicate Last Item tool
	type duplicateLastItemArgs struct{}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "duplicate_last_item",
		Description: "Duplicate the most recently added line item",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args duplicateLastItemArgs) (*mcp.CallToolResult, any, error) {
		item, err := sess.DuplicateLast()
		if err != nil {
			return nil, nil, err
		}

		return textResult(fmt.Sprintf("Article dupliqué: %s (ID: %s)", item.Name, item.ID)), item, nil
	})

	// Sort Items tool
	type sortItemsArgs struct {
		By string `json:"by" jsonschema:"Sort key: 'name' (alphabetical) or 'price' (highest first)"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sort_items",
		Description: "Sort the line items by name or by unit price",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args sortItemsArgs) (*mcp.CallToolResult, any, error) {
		switch args.By {
		case "name":
			sess.SortByName()
		case "price":
			sess.SortByPrice()
		default:
			return nil, nil, fmt.Errorf("invalid sort key %q (use 'name' or 'price')", args.By)
		}

		return textResult(fmt.Sprintf("Articles triés par %s", args.By)), nil, nil
	})

	// List Items tool
	type listItemsArgs struct{}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_items",
		Description: "List the line items of the current invoice with the computed summary",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args listItemsArgs) (*mcp.CallToolResult, any, error) {
		settings, err := st.LoadSettings()
		if err != nil {
			return nil, nil, err
		}
		c := h.activeCurrency(settings)

		items := sess.Items()
		text := fmt.Sprintf("Articles (%d):\n", len(items))
		for _, item := range items {
			text += fmt.Sprintf("- [%s] %s — Qté: %g × %s = %s",
				item.ID, item.Name, item.Quantity,
				currency.Format(item.UnitPrice, c),
				currency.FormatDecimal(item.Total(), c))
			if !item.Qualifies() {
				text += " (incomplet, non compté)"
			}
			text += "\n"
		}
		if len(items) == 0 {
			text += "Aucun article ajouté\n"
		}

		agg := sess.Aggregate()
		text += fmt.Sprintf("\nSous-total: %s\nMontant payé: %s\nReste à payer: %s\nStatut: %s\n",
			currency.FormatDecimal(agg.Subtotal, c),
			currency.FormatDecimal(agg.AmountPaid, c),
			currency.FormatDecimal(agg.Remaining, c),
			agg.Status.Label())

		return textResult(text), items, nil
	})

	// Set Amount Paid tool
	type setAmountPaidArgs struct {
		Amount float64 `json:"amount" jsonschema:"Amount already paid by the client"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_amount_paid",
		Description: "Set the amount the client has already paid",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args setAmountPaidArgs) (*mcp.CallToolResult, any, error) {
		sess.SetAmountPaid(args.Amount)

		settings, err := st.LoadSettings()
		if err != nil {
			return nil, nil, err
		}
		c := h.activeCurrency(settings)
		agg := sess.Aggregate()

		return textResult(fmt.Sprintf("Montant payé: %s\nReste à payer: %s\nStatut: %s",
			currency.FormatDecimal(agg.AmountPaid, c),
			currency.FormatDecimal(agg.Remaining, c),
			agg.Status.Label())), nil, nil
	})

	// Set Currency tool
	type setCurrencyArgs struct {
		Code string `json:"code" jsonschema:"Currency code (XOF or MAD)"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_currency",
		Description: "Change the active currency for the current session",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args setCurrencyArgs) (*mcp.CallToolResult, any, error) {
		if err := sess.SetCurrency(args.Code); err != nil {
			return nil, nil, err
		}

		c := currency.Resolve(args.Code)
		return textResult(fmt.Sprintf("Devise active: %s (%s)", c.Name, c.Symbol)), nil, nil
	})

	// Set Company tool
	type setCompanyArgs struct {
		Name    string `json:"name" jsonschema:"Company name"`
		Phone   string `json:"phone" jsonschema:"Company phone"`
		Address string `json:"address" jsonschema:"Company address"`
		Email   string `json:"email,omitempty" jsonschema:"Company email (optional)"`
		Website string `json:"website,omitempty" jsonschema:"Company website (optional)"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_company",
		Description: "Save the company profile used on every invoice",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args setCompanyArgs) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(args.Name) == "" {
			return nil, nil, fmt.Errorf("le nom de l'entreprise est requis")
		}
		if strings.TrimSpace(args.Phone) == "" {
			return nil, nil, fmt.Errorf("le téléphone de l'entreprise est requis")
		}
		if strings.TrimSpace(args.Address) == "" {
			return nil, nil, fmt.Errorf("l'adresse de l'entreprise est requise")
		}

		settings, err := st.LoadSettings()
		if err != nil {
			return nil, nil, err
		}

		settings.Company = models.CompanyProfile{
			Name:    strings.TrimSpace(args.Name),
			Phone:   strings.TrimSpace(args.Phone),
			Address: strings.TrimSpace(args.Address),
			Email:   strings.TrimSpace(args.Email),
			Website: strings.TrimSpace(args.Website),
		}
		if code := sess.CurrencyCode(); code != "" {
			settings.CurrencyCode = code
		}

		if err := st.SaveSettings(settings); err != nil {
			return nil, nil, err
		}

		return textResult("Paramètres sauvegardés avec succès !"), nil, nil
	})

	// Set Logo tool
	type setLogoArgs struct {
		Path string `json:"path" jsonschema:"Path to a PNG or JPEG logo file (max 2MB)"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "set_logo",
		Description: "Save a logo image drawn on every invoice",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args setLogoArgs) (*mcp.CallToolResult, any, error) {
		info, err := os.Stat(args.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read logo: %w", err)
		}
		if info.Size() > maxLogoSize {
			return nil, nil, fmt.Errorf("le fichier est trop volumineux (taille maximale: 2MB)")
		}

		data, err := os.ReadFile(args.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read logo: %w", err)
		}

		settings, err := st.LoadSettings()
		if err != nil {
			return nil, nil, err
		}
		settings.Logo = data

		if err := st.SaveSettings(settings); err != nil {
			return nil, nil, err
		}

		return textResult(fmt.Sprintf("Logo enregistré (%d octets)", len(data))), nil, nil
	})

	// Get Settings tool
	type getSettingsArgs struct{}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_settings",
		Description: "Show the saved company profile and currency preference",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args getSettingsArgs) (*mcp.CallToolResult, any, error) {
		settings, err := st.LoadSettings()
		if err != nil {
			return nil, nil, err
		}

		c := h.activeCurrency(settings)

		name := settings.Company.Name
		if name == "" {
			name = models.DefaultCompanyName + " (par défaut)"
		}

		text := fmt.Sprintf("Entreprise: %s\n", name)
		if settings.Company.Phone != "" {
			text += fmt.Sprintf("Téléphone: %s\n", settings.Company.Phone)
		}
		if settings.Company.Address != "" {
			text += fmt.Sprintf("Adresse: %s\n", settings.Company.Address)
		}
		if settings.Company.Email != "" {
			text += fmt.Sprintf("Email: %s\n", settings.Company.Email)
		}
		if settings.Company.Website != "" {
			text += fmt.Sprintf("Site: %s\n", settings.Company.Website)
		}
		text += fmt.Sprintf("Logo: %s\n", map[bool]string{true: "enregistré", false: "aucun"}[len(settings.Logo) > 0])
		text += fmt.Sprintf("Devise: %s (%s)\n", c.Name, c.Symbol)

		return textResult(text), settings, nil
	})

	// Preview Invoice tool
	type previewInvoiceArgs struct{}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "preview_invoice",
		Description: "Render a text preview of the current invoice (does not consume an invoice number)",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args previewInvoiceArgs) (*mcp.CallToolResult, any, error) {
		sequence, err := st.PeekSequence()
		if err != nil {
			return nil, nil, err
		}

		snapshot, err := h.assembleSnapshot(sequence)
		if err != nil {
			return nil, nil, err
		}

		return textResult(render.Preview(snapshot)), nil, nil
	})

	// Generate Invoice PDF tool
	type generateInvoicePDFArgs struct {
		OutputDir string `json:"output_dir,omitempty" jsonschema:"Directory to save the PDF into (default: ~/Downloads)"`
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_invoice_pdf",
		Description: "Generate the invoice as a paginated PDF and save it",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args generateInvoicePDFArgs) (*mcp.CallToolResult, any, error) {
		// Validate before touching the sequence counter: a rejected export
		// must leave no trace.
		if err := invoice.ValidateDraft(sess.Client(), sess.Items()); err != nil {
			return nil, nil, err
		}

		sequence, err := st.NextSequence()
		if err != nil {
			return nil, nil, err
		}

		snapshot, err := h.assembleSnapshot(sequence)
		if err != nil {
			return nil, nil, err
		}

		plan, err := layout.Plan(snapshot, layout.DefaultA4)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to lay out invoice: %w", err)
		}

		surface := render.NewPDFSurface()
		render.NewExporter(layout.DefaultA4, log).Render(surface, snapshot, plan)

		outputDir := args.OutputDir
		if outputDir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, nil, fmt.Errorf("failed to get home directory: %w", err)
			}
			outputDir = filepath.Join(homeDir, "Downloads")
		}

		pdfPath := filepath.Join(outputDir, invoice.ExportFileName(snapshot.Client, snapshot.InvoiceNumber))
		if err := surface.Save(pdfPath); err != nil {
			return nil, nil, err
		}

		_, err = st.RecordInvoice(models.InvoiceRecord{
			InvoiceNumber: snapshot.InvoiceNumber,
			ClientName:    snapshot.Client.FullName(),
			CurrencyCode:  snapshot.Currency.Code,
			Subtotal:      snapshot.Aggregate.Subtotal,
			AmountPaid:    snapshot.Aggregate.AmountPaid,
			Status:        snapshot.Aggregate.Status,
			PDFPath:       pdfPath,
			IssueDate:     snapshot.IssueDate,
		})
		if err != nil {
			return nil, nil, err
		}

		log.Infow("invoice generated",
			"number", snapshot.InvoiceNumber,
			"pages", len(plan.Pages),
			"path", pdfPath)

		return textResult(fmt.Sprintf("Facture %s générée avec succès !\nSous-total: %s\nStatut: %s\nPDF: %s",
			snapshot.InvoiceNumber,
			currency.FormatDecimal(snapshot.Aggregate.Subtotal, snapshot.Currency),
			snapshot.Aggregate.Status.Label(),
			pdfPath)), map[string]any{
			"invoice_number": snapshot.InvoiceNumber,
			"subtotal":       snapshot.Aggregate.Subtotal.String(),
			"status":         snapshot.Aggregate.Status.String(),
			"pages":          len(plan.Pages),
			"pdf_path":       pdfPath,
		}, nil
	})

	// List Invoices tool
	type listInvoicesArgs struct{}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_invoices",
		Description: "List previously generated invoices",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args listInvoicesArgs) (*mcp.CallToolResult, any, error) {
		records, err := st.ListInvoices()
		if err != nil {
			return nil, nil, err
		}

		text := fmt.Sprintf("Found %d invoices:\n", len(records))
		for _, rec := range records {
			c := currency.Resolve(rec.CurrencyCode)
			text += fmt.Sprintf("- %s: %s — %s [%s] %s\n",
				rec.InvoiceNumber, rec.ClientName,
				currency.FormatDecimal(rec.Subtotal, c),
				rec.Status.Label(),
				rec.IssueDate.Format("02/01/2006"))
		}

		return textResult(text), records, nil
	})
}

// assembleSnapshot validates the draft and builds an immutable snapshot from
// the stored settings and the session state.
func (h *Handler) assembleSnapshot(sequence int) (models.Snapshot, error) {
	if err := invoice.ValidateDraft(h.session.Client(), h.session.Items()); err != nil {
		return models.Snapshot{}, err
	}

	settings, err := h.store.LoadSettings()
	if err != nil {
		return models.Snapshot{}, err
	}
	if code := h.session.CurrencyCode(); code != "" {
		settings.CurrencyCode = code
	}

	return invoice.Assemble(settings, h.session.Client(), h.session.Items(), h.session.AmountPaid(), sequence, time.Now()), nil
}

// activeCurrency resolves the currency shown to the user: the session
// override when set, else the stored preference.
func (h *Handler) activeCurrency(settings models.Settings) currency.Currency {
	if code := h.session.CurrencyCode(); code != "" {
		return currency.Resolve(code)
	}
	return currency.Resolve(settings.CurrencyCode)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
