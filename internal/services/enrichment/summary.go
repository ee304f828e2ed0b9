package enrichment

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"companyintel/internal/domain/company"
	"companyintel/internal/domain/news"
)

const summaryPromptTemplate = `Based on the company information and recent news, provide a brief investment-focused summary.

COMPANY: %s
SECTOR: %s
DESCRIPTION: %s

RECENT NEWS HEADLINES:
%s

Write a 2-3 sentence summary highlighting the company's current market position and any notable recent developments. Focus on what an investor would want to know. Be concise and factual.`

const maxSummaryHeadlines = 5

// SummarizeCompany produces the enriched summary stored on the company
// record. Falls back to a template when no provider is available or the
// call fails.
func (s *Service) SummarizeCompany(ctx context.Context, c *company.Company, articles []*news.Article) string {
	if s.provider == nil {
		return fallbackSummary(c)
	}

	sector := "Unknown"
	if c.Sector != nil {
		sector = *c.Sector
	}
	description := "No description available"
	if c.Description != nil {
		description = *c.Description
	}

	headlines := make([]string, 0, maxSummaryHeadlines)
	for i, a := range articles {
		if i >= maxSummaryHeadlines {
			break
		}
		headlines = append(headlines, fmt.Sprintf("%d. %s", i+1, a.Title))
	}
	headlinesText := "No recent news available"
	if len(headlines) > 0 {
		headlinesText = strings.Join(headlines, "\n")
	}

	prompt := fmt.Sprintf(summaryPromptTemplate, c.Name, sector, description, headlinesText)

	summary, err := s.provider.Complete(ctx, prompt, 300)
	if err != nil {
		s.logger.Warnw("summary generation failed, using fallback",
			"provider", s.provider.Name(), "symbol", c.Symbol, "error", err)
		return fallbackSummary(c)
	}
	return strings.TrimSpace(summary)
}

func fallbackSummary(c *company.Company) string {
	name := c.Name
	if name == "" {
		name = "This company"
	}
	sector := "the market"
	if c.Sector != nil && *c.Sector != "" && *c.Sector != "Unknown" {
		sector = *c.Sector
	}

	base := fmt.Sprintf("%s operates in %s and continues to navigate current market conditions.", name, sector)
	if c.MarketCap.Valid {
		if mc := c.MarketCap.Decimal.IntPart(); mc > 0 {
			base += fmt.Sprintf(" Market capitalization stands at roughly $%s.", humanize.Comma(mc))
		}
	}
	return base + " Recent developments suggest ongoing strategic initiatives."
}
