package classify

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"synthcheck/internal/profile"
)

// Document is one result from the knowledge-search collaborator.
type Document struct {
	Title   string
	Content string
	URL     string
}

// KnowledgeSearch is the external documentation-search collaborator.
type KnowledgeSearch interface {
	Search(ctx context.Context, query string, limit int) ([]Document, error)
}

// TextAnalyzer optionally refines a keyword-based verdict using the same
// document context, typically LLM-backed. Failures fall back to the
// keyword result.
type TextAnalyzer interface {
	Analyze(ctx context.Context, columnName string, docs []Document) (sensitivityType string, confidence float64, err error)
}

const (
	kbSearchLimit     = 5
	kbMinScore        = 2
	kbMatchConfidence = 0.75
	kbWeakConfidence  = 0.2
	kbDefaultTimeout  = 5 * time.Second
)

// Keyword table scanned in priority order; title hits count double.
var kbKeywords = []nameRule{
	{TypeEmail, []string{"email", "e-mail", "electronic mail"}},
	{TypePhone, []string{"phone", "telephone", "mobile number"}},
	{TypeSSN, []string{"social security", "ssn", "national identifier"}},
	{TypeCreditCard, []string{"credit card", "card number", "payment card"}},
	{TypeName, []string{"person name", "full name", "first name", "last name"}},
	{TypeAddress, []string{"address", "residence", "street"}},
	{TypeDateOfBirth, []string{"date of birth", "birthday", "dob"}},
	{TypePassword, []string{"password", "credential", "secret"}},
	{TypeIdentifier, []string{"identifier", "primary key", "unique id"}},
}

// KnowledgeBaseClassifier consults an external documentation search for
// field definitions and scores candidate PII types by keyword hits.
// Results are cached per lowercased column name for the classifier's
// lifetime; the cache is mutex-guarded because classification fans out
// across goroutines.
type KnowledgeBaseClassifier struct {
	search   KnowledgeSearch
	analyzer TextAnalyzer
	timeout  time.Duration

	mu    sync.Mutex
	cache map[string]ClassificationScore
}

// NewKnowledgeBaseClassifier builds a classifier over the given
// collaborators. Either may be nil; timeout <= 0 selects a default.
func NewKnowledgeBaseClassifier(search KnowledgeSearch, analyzer TextAnalyzer, timeout time.Duration) *KnowledgeBaseClassifier {
	if timeout <= 0 {
		timeout = kbDefaultTimeout
	}
	return &KnowledgeBaseClassifier{
		search:   search,
		analyzer: analyzer,
		timeout:  timeout,
		cache:    make(map[string]ClassificationScore),
	}
}

func (c *KnowledgeBaseClassifier) Classify(p *profile.ColumnProfile) ClassificationScore {
	if c.search == nil {
		return zeroScore("knowledge base not available")
	}

	key := strings.ToLower(p.Name)
	c.mu.Lock()
	if score, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return score
	}
	c.mu.Unlock()

	score := c.classify(p.Name)

	c.mu.Lock()
	c.cache[key] = score
	c.mu.Unlock()
	return score
}

func (c *KnowledgeBaseClassifier) classify(columnName string) ClassificationScore {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	docs, err := c.search.Search(ctx, fmt.Sprintf("field definition %s", columnName), kbSearchLimit)
	if err != nil {
		// Slow or broken collaborators must never block the pipeline.
		return zeroScore(fmt.Sprintf("knowledge search failed: %v", err))
	}
	if len(docs) == 0 {
		return zeroScore("no documentation found")
	}

	bestType := ""
	bestScore := 0
	for _, rule := range kbKeywords {
		score := 0
		for _, doc := range docs {
			title := strings.ToLower(doc.Title)
			content := strings.ToLower(doc.Content)
			for _, kw := range rule.keywords {
				if strings.Contains(title, kw) {
					score += 2
				}
				if strings.Contains(content, kw) {
					score++
				}
			}
		}
		if score > bestScore {
			bestScore = score
			bestType = rule.piiType
		}
	}

	refs := make([]string, 0, len(docs))
	for _, doc := range docs {
		if doc.URL != "" {
			refs = append(refs, doc.URL)
		}
	}

	var result ClassificationScore
	if bestScore >= kbMinScore {
		result = ClassificationScore{
			Confidence:      kbMatchConfidence,
			SensitivityType: bestType,
			Reasoning:       fmt.Sprintf("documentation describes %s content (keyword score %d over %d documents)", bestType, bestScore, len(docs)),
			References:      refs,
		}
	} else {
		result = ClassificationScore{
			Confidence:      kbWeakConfidence,
			SensitivityType: TypeUnknown,
			Reasoning:       fmt.Sprintf("documentation found but inconclusive (keyword score %d)", bestScore),
			References:      refs,
		}
	}

	if c.analyzer != nil {
		if refined, conf, err := c.analyzer.Analyze(ctx, columnName, docs); err == nil && refined != "" {
			result.SensitivityType = refined
			result.Confidence = conf
			result.Reasoning += fmt.Sprintf("; refined by text analysis to %s", refined)
		}
	}

	return result
}
