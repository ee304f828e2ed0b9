package newsapi

import (
	"fmt"
	"strings"
	"time"

	"companyintel/internal/domain/news"
)

// MockArticles returns the deterministic article set used when the live
// provider is unavailable. The content deliberately covers the whole
// classification taxonomy so the enrichment fallback is exercised
// end to end without a network dependency.
func MockArticles(companyName, symbol string) []*news.Article {
	symbol = strings.ToUpper(symbol)
	slug := strings.ToLower(symbol)
	now := time.Now().UTC()

	specs := []struct {
		title     string
		source    string
		author    string
		urlSuffix string
		daysAgo   int
		content   string
	}{
		{
			title:     fmt.Sprintf("%s Reports Strong Q4 Earnings, Beats Analyst Expectations", companyName),
			source:    "Financial Times",
			author:    "Market Reporter",
			urlSuffix: "earnings",
			daysAgo:   1,
			content: fmt.Sprintf("%s announced quarterly earnings that exceeded Wall Street expectations. "+
				"Revenue grew 15%% year-over-year, driven by strong demand in core business segments. "+
				"The company also raised its full-year guidance, citing improved market conditions and "+
				"successful cost optimization initiatives.", companyName),
		},
		{
			title:     fmt.Sprintf("%s Announces New AI-Powered Product Line", companyName),
			source:    "TechCrunch",
			author:    "Tech Editor",
			urlSuffix: "ai-product",
			daysAgo:   3,
			content: fmt.Sprintf("In a move to strengthen its competitive position, %s unveiled a new suite of "+
				"AI-powered products today. The company's CEO stated that this represents a significant "+
				"investment in emerging technologies and positions the firm for long-term growth in the "+
				"rapidly evolving market landscape.", companyName),
		},
		{
			title:     fmt.Sprintf("Analysts Upgrade %s Following Market Expansion", companyName),
			source:    "Bloomberg",
			author:    "Senior Analyst",
			urlSuffix: "upgrade",
			daysAgo:   5,
			content: fmt.Sprintf("Several major investment banks have upgraded their rating on %s stock following "+
				"the company's successful expansion into Asian markets. Analysts cite strong execution and "+
				"favorable regulatory environment as key factors. Price targets have been raised by an "+
				"average of 12%%.", companyName),
		},
		{
			title:     fmt.Sprintf("%s Faces Regulatory Scrutiny Over Data Practices", companyName),
			source:    "Reuters",
			author:    "Legal Correspondent",
			urlSuffix: "regulatory",
			daysAgo:   2,
			content: fmt.Sprintf("Regulators have opened an inquiry into %s's data handling practices. While the "+
				"company maintains it operates in full compliance with all applicable laws, investors are "+
				"watching closely. Legal experts suggest the investigation could take several months to "+
				"conclude.", companyName),
		},
		{
			title:     fmt.Sprintf("%s CEO Discusses Future Strategy in Investor Call", companyName),
			source:    "CNBC",
			author:    "Business Reporter",
			urlSuffix: "strategy",
			daysAgo:   4,
			content: fmt.Sprintf("During the latest investor call, %s's leadership outlined ambitious plans for the "+
				"coming year. Key initiatives include expanding digital capabilities, pursuing strategic "+
				"acquisitions, and increasing R&D spending by 20%%. Management expressed confidence in "+
				"achieving double-digit growth.", companyName),
		},
	}

	articles := make([]*news.Article, 0, len(specs))
	for _, s := range specs {
		source, author := s.source, s.author
		url := fmt.Sprintf("https://example.com/news/%s-%s", slug, s.urlSuffix)
		published := now.AddDate(0, 0, -s.daysAgo)
		content := s.content
		articles = append(articles, &news.Article{
			Symbol:      symbol,
			Title:       s.title,
			Source:      &source,
			Author:      &author,
			URL:         &url,
			PublishedAt: &published,
			Content:     &content,
		})
	}
	return articles
}
