// Package classifier_test provides unit tests for intent classification.
package classifier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techrehub/chatbot-service/internal/services/catalog"
	"github.com/techrehub/chatbot-service/internal/services/classifier"
)

func newClassifier(t *testing.T) *classifier.Classifier {
	t.Helper()
	return classifier.New(catalog.NewService())
}

func TestClassify_Greeting(t *testing.T) {
	c := newClassifier(t)

	result := c.Classify("hello")

	assert.Equal(t, classifier.IntentGreeting, result.Intent)
	assert.GreaterOrEqual(t, result.Confidence, classifier.ConfidenceThreshold)
	assert.False(t, result.KeywordMatch)
}

func TestClassify_KeywordMatchBypassesModel(t *testing.T) {
	c := newClassifier(t)

	// "laptop repair" is a catalog keyword; it must route straight to the
	// service info intent regardless of model confidence.
	result := c.Classify("my laptop repair is taking forever, any chance you handle that")

	assert.Equal(t, "service.info.computer-repair", result.Intent)
	assert.Equal(t, 1.0, result.Confidence)
	assert.True(t, result.KeywordMatch)
}

func TestClassify_ProductKeyword(t *testing.T) {
	c := newClassifier(t)

	result := c.Classify("do you have an analytics dashboard")

	assert.Equal(t, "product.info.analytics-dashboard", result.Intent)
	assert.True(t, result.KeywordMatch)
}

func TestClassify_TrainedPhraseClearsThreshold(t *testing.T) {
	c := newClassifier(t)

	// Single-word utterances share tokens with other classes; a verbatim
	// trained phrase must still start the flow.
	for _, message := range []string{"quotation", "Quotation!", "I need a quotation please"} {
		result := c.Classify(message)

		assert.Equal(t, classifier.IntentQuotationStart, result.Intent, "message %q", message)
		assert.GreaterOrEqual(t, result.Confidence, classifier.ConfidenceThreshold, "message %q", message)
	}
}

func TestClassify_BookingPhraseClearsThreshold(t *testing.T) {
	c := newClassifier(t)

	result := c.Classify("book a service")

	assert.Equal(t, classifier.IntentBookingStart, result.Intent)
	assert.GreaterOrEqual(t, result.Confidence, classifier.ConfidenceThreshold)
}

func TestClassify_GibberishIsUnknown(t *testing.T) {
	c := newClassifier(t)

	result := c.Classify("xyzzy plugh frobnicate")

	assert.Equal(t, classifier.IntentUnknown, result.Intent)
	assert.Less(t, result.Confidence, classifier.ConfidenceThreshold)
}

func TestClassify_EmptyMessageIsUnknown(t *testing.T) {
	c := newClassifier(t)

	result := c.Classify("!!! ???")

	assert.Equal(t, classifier.IntentUnknown, result.Intent)
}

func TestClassify_HumanTransfer(t *testing.T) {
	c := newClassifier(t)

	result := c.Classify("i want to speak to a human agent")

	assert.Equal(t, classifier.IntentTransferHuman, result.Intent)
}

func TestInfoIntentRoundTrip(t *testing.T) {
	cat := catalog.NewService()
	item, err := cat.Get("network-setup")
	require.NoError(t, err)

	intent := classifier.InfoIntent(item)
	id, kind, ok := classifier.ParseInfoIntent(intent)

	require.True(t, ok)
	assert.Equal(t, "network-setup", id)
	assert.Equal(t, item.Kind, kind)
}

func TestParseInfoIntent_RejectsOtherIntents(t *testing.T) {
	_, _, ok := classifier.ParseInfoIntent(classifier.IntentGreeting)

	assert.False(t, ok)
}
