package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleTable_Order(t *testing.T) {
	tbl := DefaultRuleTable()
	assert.Equal(t, []string{RuleGreeting, RuleRecommendation, RuleValuation, RuleRisk, RuleBeginner, RuleMarket}, tbl.Names())

	tests := []struct {
		msg  string
		ctx  string
		rule string
	}{
		{"", "", RuleGreeting},
		{"  HI  ", "", RuleGreeting},
		{"hey, quick one", "", RuleGreeting},
		{"Should I buy TSLA?", "", RuleRecommendation},
		{"is investing in index funds smart", "", RuleRecommendation},
		{"what is a good P/E?", "", RuleValuation},
		{"explain price to earnings", "", RuleValuation},
		{"Is this risky?", "", RuleRisk},
		{"I'm a beginner", "", RuleBeginner},
		{"how to read a chart", "", RuleBeginner},
		{"What is the market doing", "", RuleMarket},
		{"explain dividends", "AAPL score 70", RuleContext},
		{"explain dividends", "", RuleGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			reply, rule := tbl.Reply(tt.msg, tt.ctx)
			assert.Equal(t, tt.rule, rule)
			assert.NotEmpty(t, reply)
		})
	}
}

func TestRuleTable_Deterministic(t *testing.T) {
	tbl := DefaultRuleTable()
	first, rule := tbl.Reply("how risky is the market", "")
	for i := 0; i < 10; i++ {
		again, r := tbl.Reply("how risky is the market", "")
		assert.Equal(t, first, again)
		assert.Equal(t, rule, r)
	}
	assert.Equal(t, RuleRisk, rule, "risk is checked before market")
}

func TestRuleTable_ContextReplyMentionsContext(t *testing.T) {
	reply, _ := DefaultRuleTable().Reply("explain dividends", "MSFT: Buy, score 75")
	assert.Contains(t, reply, "MSFT: Buy, score 75")
}

func TestKeyword(t *testing.T) {
	assert.True(t, word("hi").in("hi"))
	assert.True(t, word("hi").in("oh hi!"))
	assert.False(t, word("hi").in("this"))
	assert.False(t, word("hi").in("history"))
	assert.True(t, word("hi").in("this and hi"))
	assert.True(t, phrase("risk").in("risky"))
}

func TestShouldUseLocal(t *testing.T) {
	tests := []struct {
		msg   string
		local bool
	}{
		{"hi", true},
		{"abcd", true},
		{"股票好", true},
		{"  ÄÖÜß ", true},
		{"股票怎么样呢", false},
		{"   ok   ", true},
		{"Can you help me", true},
		{"What can you do?", true},
		{"which stock is hot", true},
		{"Best stock for 2025", true},
		{"this is a question about dividends", false},
		{"Explain dollar cost averaging", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.local, ShouldUseLocal(tt.msg), tt.msg)
	}
}
