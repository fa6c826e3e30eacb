package cli

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/axellelanca/dynamiclinks/cmd"
	"github.com/axellelanca/dynamiclinks/internal/models"
	"github.com/axellelanca/dynamiclinks/internal/repository"
	"github.com/axellelanca/dynamiclinks/internal/services"
	"github.com/spf13/cobra"
)

var (
	linkFlag            string
	androidPackageFlag  string
	androidFallbackFlag string
	iosBundleFlag       string
	iosFallbackFlag     string
	titleFlag           string
	descriptionFlag     string
	imageFlag           string
	deepLinkPrefixFlag  string
	tokenTypeFlag       string
	tokenFlag           string
	expiresInFlag       int
)

// CreateCmd représente la commande 'create'
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Creates a dynamic link in the SQLite store.",
	Long: `This command stores a dynamic link and prints its token and short URL.

Example:
  dynamiclinks create --link="https://example.com/page" --android-package=com.example.app --expires-in=60`,
	Run: func(_ *cobra.Command, args []string) {
		if _, err := url.ParseRequestURI(linkFlag); err != nil {
			fmt.Printf("Error: Invalid URL format: %v\n", err)
			os.Exit(1)
		}

		cfg := cmd.Cfg
		db, err := cmd.OpenSQLite(cfg)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("FATAL: Failed to get underlying SQL database: %v", err)
		}
		defer sqlDB.Close()

		linkService := services.NewLinkService(
			repository.NewLinkRepository(db),
			services.NewRandomTokenGenerator(cfg.Links.TokenLength),
			cfg.Links.MaxCreateRetries,
		)

		link, err := linkService.CreateLink(context.Background(), services.CreateLinkRequest{
			DynamicLinkInfo:  buildDynamicLinkInfo(),
			ExpiresInMinutes: expiresInFlag,
		})
		if err != nil {
			log.Fatalf("Failed to create dynamic link: %v", err)
		}

		fmt.Printf("Dynamic link created:\n")
		fmt.Printf("Token: %s\n", link.Token)
		fmt.Printf("Short URL: %s/%s\n", cfg.Server.BaseURL, link.Token)
		if link.ExpiresAt != nil {
			fmt.Printf("Expires at: %s\n", link.ExpiresAt.Format("2006-01-02 15:04:05"))
		}
	},
}

// buildDynamicLinkInfo leaves sub-sections nil when none of their flags is set.
func buildDynamicLinkInfo() *models.DynamicLinkInfo {
	info := &models.DynamicLinkInfo{
		Link:           linkFlag,
		DeepLinkPrefix: deepLinkPrefixFlag,
		TokenType:      tokenTypeFlag,
		Token:          tokenFlag,
	}
	if androidPackageFlag != "" || androidFallbackFlag != "" {
		info.AndroidInfo = &models.AndroidInfo{PackageName: androidPackageFlag, FallbackURL: androidFallbackFlag}
	}
	if iosBundleFlag != "" || iosFallbackFlag != "" {
		info.IOSInfo = &models.IOSInfo{BundleID: iosBundleFlag, FallbackURL: iosFallbackFlag}
	}
	if titleFlag != "" || descriptionFlag != "" || imageFlag != "" {
		info.SocialMetaTagInfo = &models.SocialMetaTagInfo{Title: titleFlag, Description: descriptionFlag, ImageURL: imageFlag}
	}
	return info
}

func init() {
	CreateCmd.Flags().StringVar(&linkFlag, "link", "", "Target URL (web fallback)")
	CreateCmd.Flags().StringVar(&androidPackageFlag, "android-package", "", "Android package name")
	CreateCmd.Flags().StringVar(&androidFallbackFlag, "android-fallback", "", "Android fallback URL")
	CreateCmd.Flags().StringVar(&iosBundleFlag, "ios-bundle", "", "iOS bundle id")
	CreateCmd.Flags().StringVar(&iosFallbackFlag, "ios-fallback", "", "iOS fallback URL")
	CreateCmd.Flags().StringVar(&titleFlag, "title", "", "Social preview title")
	CreateCmd.Flags().StringVar(&descriptionFlag, "description", "", "Social preview description")
	CreateCmd.Flags().StringVar(&imageFlag, "image", "", "Social preview image URL")
	CreateCmd.Flags().StringVar(&deepLinkPrefixFlag, "deep-link-prefix", "", "Custom URI scheme of the app (default \"app\")")
	CreateCmd.Flags().StringVar(&tokenTypeFlag, "token-type", "", "Key of the deep link payload")
	CreateCmd.Flags().StringVar(&tokenFlag, "token", "", "Value of the deep link payload")
	CreateCmd.Flags().IntVar(&expiresInFlag, "expires-in", 0, "Expiry in minutes (0 means never)")

	CreateCmd.MarkFlagRequired("link")

	cmd.RootCmd.AddCommand(CreateCmd)
}
