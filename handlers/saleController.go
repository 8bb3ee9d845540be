package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/vyaparlabs/gstbooks_backend/models"
	"github.com/vyaparlabs/gstbooks_backend/utils"
)

func CreateSaleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewSale
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		sale, err := models.CreateSale(c.Request.Context(), &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, sale)
	}
}

func UpdateSaleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var input models.NewSale
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		sale, err := models.UpdateSale(c.Request.Context(), id, &input)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sale)
	}
}

func DeleteSaleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		sale, err := models.DeleteSale(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sale)
	}
}

func GetSaleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		sale, err := models.GetSale(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sale)
	}
}

func ListSalesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.SaleFilter{
			ClientId:  queryInt(c, "clientId"),
			Status:    models.PaymentStatus(c.Query("status")),
			StartDate: c.Query("startDate"),
			EndDate:   c.Query("endDate"),
			Search:    c.Query("search"),
		}
		sales, err := models.ListSales(c.Request.Context(), &filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sales)
	}
}

type recordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	PaymentMode string          `json:"payment_mode"`
}

func RecordSalePaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		var req recordPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		sale, err := models.RecordSalePayment(c.Request.Context(), id, req.Amount, req.PaymentMode)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sale)
	}
}

// SaleInvoicePdfHandler renders the invoice as a downloadable PDF.
func SaleInvoicePdfHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramId(c)
		if !ok {
			return
		}
		ctx := c.Request.Context()
		sale, err := models.GetSale(ctx, id)
		if err != nil {
			respondError(c, err)
			return
		}
		settings, err := models.GetSettings(ctx)
		if err != nil {
			respondInternalError(c, "saleController.go", "SaleInvoicePdfHandler", err)
			return
		}

		data := utils.InvoicePdfData{
			CompanyName:    settings.CompanyName,
			CompanyAddress: settings.Address,
			CompanyGstin:   settings.Gstin,
			CompanyState:   settings.State,
			CompanyPhone:   settings.Phone,
			CompanyEmail:   settings.Email,
			InvoiceNumber:  sale.InvoiceNumber,
			InvoiceDate:    sale.InvoiceDate.Format("02-01-2006"),
			CustomerName:   sale.CustomerName,
			CustomerGstin:  sale.CustomerGstin,
			CustomerState:  sale.CustomerState,
			Subtotal:       utils.Round2(sale.Subtotal),
			TaxTotal:       utils.Round2(sale.TaxTotal),
			Discount:       utils.Round2(sale.Discount),
			TotalAmount:    utils.Round2(sale.TotalAmount),
			PaidAmount:     utils.Round2(sale.PaidAmount),
			PendingAmount:  utils.Round2(sale.PendingAmount),
			BankName:       settings.BankName,
			BankAccountNo:  settings.BankAccountNo,
			BankIfsc:       settings.BankIfsc,
			Terms:          settings.InvoiceTerms,
		}
		for _, item := range sale.Items {
			data.Items = append(data.Items, utils.InvoicePdfItem{
				Name:       item.Name,
				HsnCode:    item.HsnCode,
				Quantity:   item.Quantity,
				Rate:       item.Rate,
				TaxPercent: item.TaxPercent,
				Taxable:    utils.Round2(item.Taxable),
				Tax:        utils.Round2(item.TaxAmount),
				Total:      utils.Round2(item.Total),
			})
		}

		pdf, err := utils.RenderInvoicePdf(data)
		if err != nil {
			respondInternalError(c, "saleController.go", "SaleInvoicePdfHandler", err)
			return
		}

		filename := fmt.Sprintf("invoice-%s.pdf", sale.InvoiceNumber)
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}
