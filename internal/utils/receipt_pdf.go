package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/skip2/go-qrcode"
)

// TrackingQR génère le QR de partage d'une page de suivi de commande,
// en PNG prêt à servir
func TrackingQR(trackURL string) ([]byte, error) {
	png, err := qrcode.Encode(trackURL, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("génération QR impossible: %v", err)
	}
	return png, nil
}

// RenderReceiptPDF charge la vue imprimable du reçu dans un Chrome
// headless et l'imprime en PDF. printURL pointe vers notre propre page
// /orders/{id}/print/ (même process), pas vers l'API. cookieHeader
// rejoue la session du navigateur : la vue reste protégée.
func RenderReceiptPDF(printURL, cookieHeader string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	// timeout pour éviter de bloquer
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	headers := network.Headers{}
	if cookieHeader != "" {
		headers["Cookie"] = cookieHeader
	}

	var pdfBuf []byte

	err := chromedp.Run(ctx,
		network.Enable(),
		network.SetExtraHTTPHeaders(headers),
		chromedp.Navigate(printURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return pdfBuf, nil
}
