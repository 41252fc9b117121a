package clients

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var (
	sheetsInstance *sheets.Service
	sheetsOnce     sync.Once
	sheetsInitErr  error
)

// GetSheetsService authenticates against the Sheets API with a service
// account key file and returns the shared service.
func GetSheetsService(ctx context.Context, credentialsFile string) (*sheets.Service, error) {
	sheetsOnce.Do(func() {
		data, err := os.ReadFile(credentialsFile)
		if err != nil {
			sheetsInitErr = fmt.Errorf("[SheetsClient] reading credentials: %w", err)
			return
		}

		conf, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
		if err != nil {
			sheetsInitErr = fmt.Errorf("[SheetsClient] parsing service account key: %w", err)
			return
		}

		svc, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
		if err != nil {
			sheetsInitErr = fmt.Errorf("[SheetsClient] creating sheets service: %w", err)
			return
		}

		slog.Info("[SheetsClient] Authenticated with Google Sheets API")
		sheetsInstance = svc
	})

	return sheetsInstance, sheetsInitErr
}
