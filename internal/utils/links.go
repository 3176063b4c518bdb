package utils

import (
	"net/url"
	"strings"
)

// ShareLinkPlaceholder is replaced by the participant's link in share texts
const ShareLinkPlaceholder = "{{link}}"

// CampaignShareURL builds the public short link of a campaign, optionally carrying a referral token.
func CampaignShareURL(baseURL, campaignID, referralToken string, idLength int) string {
	link := strings.TrimRight(baseURL, "/") + "/l/" + ShortID(campaignID, idLength)
	if referralToken != "" {
		link += "/" + ShortID(referralToken, idLength)
	}
	return link
}

// LandingURL is where a short link redirects to
func LandingURL(baseURL, campaignID, referralToken string) string {
	q := url.Values{}
	q.Set("c", campaignID)
	if referralToken != "" {
		q.Set("r", referralToken)
	}
	return strings.TrimRight(baseURL, "/") + "/?" + q.Encode()
}

// ApplyShareText substitutes the link into a share text template, appending it when there is no placeholder.
func ApplyShareText(template, link string) string {
	if template == "" {
		return link
	}
	if strings.Contains(template, ShareLinkPlaceholder) {
		return strings.ReplaceAll(template, ShareLinkPlaceholder, link)
	}
	return template + "\n" + link
}

// WhatsAppShareURL opens WhatsApp with a pre-filled message
func WhatsAppShareURL(text string) string {
	return "https://wa.me/?text=" + url.QueryEscape(text)
}

// WhatsAppChatURL opens a chat with a specific number
func WhatsAppChatURL(phone, countryCode, text string) string {
	u := "https://wa.me/" + InternationalPhone(phone, countryCode)
	if text != "" {
		u += "?text=" + url.QueryEscape(text)
	}
	return u
}
