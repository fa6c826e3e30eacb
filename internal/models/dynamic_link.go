package models

// DefaultDeepLinkPrefix is the custom scheme used when a link carries none.
const DefaultDeepLinkPrefix = "app"

// DefaultSocialImageLink is the og:image shown for links without a social image.
const DefaultSocialImageLink = "https://url-shortener-e34c.onrender.com/default.png"

// DynamicLinkInfo is the platform payload attached to a link. JSON names follow
// the Firebase Dynamic Links request format. A nil sub-section means the
// section was not provided.
type DynamicLinkInfo struct {
	Link              string             `json:"link"`
	DomainURIPrefix   string             `json:"domainUriPrefix,omitempty"`
	AndroidInfo       *AndroidInfo       `json:"androidInfo,omitempty"`
	IOSInfo           *IOSInfo           `json:"iosInfo,omitempty"`
	SocialMetaTagInfo *SocialMetaTagInfo `json:"socialMetaTagInfo,omitempty"`
	DeepLinkPrefix    string             `json:"deepLinkPrefix,omitempty"`
	TokenType         string             `json:"tokenType,omitempty"`
	Token             string             `json:"token,omitempty"`
}

// AndroidInfo identifies the Android app and its web fallback.
type AndroidInfo struct {
	PackageName string `json:"androidPackageName,omitempty"`
	FallbackURL string `json:"androidFallbackLink,omitempty"`
}

// IOSInfo identifies the iOS app and its web fallback.
type IOSInfo struct {
	BundleID    string `json:"iosBundleId,omitempty"`
	FallbackURL string `json:"iosFallbackLink,omitempty"`
}

// SocialMetaTagInfo is rendered into Open Graph and Twitter card tags.
type SocialMetaTagInfo struct {
	Title       string `json:"socialTitle,omitempty"`
	Description string `json:"socialDescription,omitempty"`
	ImageURL    string `json:"socialImageLink,omitempty"`
}

// DeepLinkScheme returns the configured prefix or DefaultDeepLinkPrefix.
func (d DynamicLinkInfo) DeepLinkScheme() string {
	if d.DeepLinkPrefix == "" {
		return DefaultDeepLinkPrefix
	}
	return d.DeepLinkPrefix
}

// AndroidPackage returns the Android package name, or "" when absent.
func (d DynamicLinkInfo) AndroidPackage() string {
	if d.AndroidInfo == nil {
		return ""
	}
	return d.AndroidInfo.PackageName
}

// AndroidFallback returns the Android fallback URL, or "" when absent.
func (d DynamicLinkInfo) AndroidFallback() string {
	if d.AndroidInfo == nil {
		return ""
	}
	return d.AndroidInfo.FallbackURL
}

// IOSBundle returns the iOS bundle id, or "" when absent.
func (d DynamicLinkInfo) IOSBundle() string {
	if d.IOSInfo == nil {
		return ""
	}
	return d.IOSInfo.BundleID
}

// IOSFallback returns the iOS fallback URL, or "" when absent.
func (d DynamicLinkInfo) IOSFallback() string {
	if d.IOSInfo == nil {
		return ""
	}
	return d.IOSInfo.FallbackURL
}

// Social returns the social meta section, or an empty one when absent.
func (d DynamicLinkInfo) Social() SocialMetaTagInfo {
	if d.SocialMetaTagInfo == nil {
		return SocialMetaTagInfo{}
	}
	return *d.SocialMetaTagInfo
}
