package assistant

import "fmt"

// Rule is one row of the local decision table.
type Rule struct {
	Name  string
	Match func(msg string) bool
	Reply func(stockContext string) string
}

// RuleTable answers messages without any remote call. Rules are evaluated in
// order and the first match wins, so the same message always lands in the
// same category.
type RuleTable struct {
	rules []Rule
}

// Rule names, also recorded as the reply source.
const (
	RuleGreeting       = "greeting"
	RuleRecommendation = "recommendation"
	RuleValuation      = "valuation"
	RuleRisk           = "risk"
	RuleBeginner       = "beginner"
	RuleMarket         = "market"
	RuleContext        = "context"
	RuleGeneric        = "generic"
)

// NewRuleTable creates a table from rules in evaluation order.
func NewRuleTable(rules ...Rule) *RuleTable {
	return &RuleTable{rules: rules}
}

// DefaultRuleTable returns the built-in educational replies.
func DefaultRuleTable() *RuleTable {
	return NewRuleTable(
		Rule{RuleGreeting, func(m string) bool {
			return m == "" || anyIn(m, word("hello"), word("hi"), word("hey"), word("start"))
		}, fixed(greetingReply)},
		Rule{RuleRecommendation, func(m string) bool {
			return anyIn(m, word("buy"), word("sell"), phrase("invest"), phrase("good stock"),
				phrase("should buy"), phrase("recommend"), phrase("which stock"))
		}, fixed(recommendationReply)},
		Rule{RuleValuation, func(m string) bool {
			return anyIn(m, phrase("p/e"), phrase("pe ratio"), phrase("price to earnings"))
		}, fixed(valuationReply)},
		Rule{RuleRisk, func(m string) bool {
			return anyIn(m, phrase("risk"), phrase("safe"), phrase("dangerous"))
		}, fixed(riskReply)},
		Rule{RuleBeginner, func(m string) bool {
			return anyIn(m, phrase("beginner"), word("start"), phrase("how to"), word("new"))
		}, fixed(beginnerReply)},
		Rule{RuleMarket, func(m string) bool {
			return anyIn(m, phrase("market"), phrase("trend"), phrase("economy"))
		}, fixed(marketReply)},
	)
}

// Reply returns the first matching canned reply and the name of the rule
// that produced it.
func (t *RuleTable) Reply(message, stockContext string) (string, string) {
	msg := normalize(message)
	for _, r := range t.rules {
		if r.Match(msg) {
			return r.Reply(stockContext), r.Name
		}
	}
	if stockContext != "" {
		return contextReply(stockContext), RuleContext
	}
	return genericReply, RuleGeneric
}

// Names lists rule names in evaluation order.
func (t *RuleTable) Names() []string {
	out := make([]string, len(t.rules))
	for i, r := range t.rules {
		out[i] = r.Name
	}
	return out
}

func fixed(s string) func(string) string {
	return func(string) string { return s }
}

func contextReply(stockContext string) string {
	return fmt.Sprintf(`🤖 I'm here to help with stock and investing questions!

📊 **Current Analysis Context**: %s

💭 **Ask me about:**
• How to interpret the analysis results
• What the risk level means
• Investment strategies for beginners
• How to use P/E ratios and other metrics

🚀 What specific aspect of investing would you like to learn about?`, stockContext)
}

const greetingReply = `🤖 Hi! I'm your StockPulse assistant, here to help you learn about stocks and investing!

💡 **I can help you with:**
• Understanding stock analysis and metrics
• Explaining investment concepts for beginners
• Risk assessment and management strategies
• Market trends and economic indicators

📈 **Popular Questions:**
• "How do I start investing?"
• "What does P/E ratio mean?"
• "Is [STOCK] a good buy?"
• "How risky is this investment?"

What would you like to learn about?`

const recommendationReply = `💡 **Stock Investment Guidance:**

I can't recommend specific stocks to buy, but I can teach you how to choose wisely!

🔍 **Research Process:**
• **Step 1**: Use the analyzer to check AMZN, AAPL, TSLA, GOOGL, or MSFT
• **Step 2**: Look for companies with strong financials and reasonable P/E ratios
• **Step 3**: Consider your risk tolerance and investment timeline
• **Step 4**: Diversify - don't put all money in one stock!

📊 **Key Metrics to Check:**
• P/E Ratio (15-25 is often reasonable)
• Revenue growth over time
• Market cap and trading volume
• Industry position and competition

⚠️ **Important**: This is educational guidance, not financial advice. Start with small amounts, learn as you go, and consider consulting a financial advisor!

Try analyzing a stock to see these principles in action! 📈`

const valuationReply = `📊 **P/E Ratio Explained Simply:**

The Price-to-Earnings ratio compares a stock's price to its annual earnings per share.

• **Low P/E (under 15)**: Potentially undervalued, but verify why
• **Medium P/E (15-25)**: Generally fair valuation
• **High P/E (over 25)**: May be overvalued or high-growth company

💡 **Example**: If a stock costs $100 and earns $5 per share annually, P/E = 20

⚠️ **Tip**: Compare P/E ratios within the same industry for better context!`

const riskReply = `🛡️ **Stock Investment Risks:**

• **Market Risk**: Prices fluctuate with overall market conditions
• **Company Risk**: Business-specific challenges or failures
• **Sector Risk**: Industry-wide problems (tech crash, oil prices)
• **Inflation Risk**: Purchasing power erosion over time

🎯 **Risk Management Tips**:
• Diversify across different stocks and sectors
• Only invest money you can afford to lose
• Start small and learn gradually
• Consider your time horizon

📊 Every stock analysis includes a risk assessment!`

const beginnerReply = `🌟 **Getting Started with Stock Investing:**

**Step 1**: Learn the basics (you're doing great! 📚)
**Step 2**: Open a brokerage account with reputable firms
**Step 3**: Start with index funds or blue-chip stocks
**Step 4**: Invest regularly, not just once

💡 **Beginner-Friendly Stocks**: Look for established companies like:
• Apple (AAPL) • Microsoft (MSFT) • Google (GOOGL)

⚠️ **Golden Rule**: Never invest more than you can afford to lose!

🚀 Try analyzing these stocks with the analyzer!`

const marketReply = `📈 **Understanding Market Trends:**

• **Bull Market**: Prices rising, investor confidence high 🐂
• **Bear Market**: Prices falling 20%+ from highs 🐻
• **Correction**: 10-20% decline, often healthy

🔍 **Key Indicators to Watch**:
• Economic data (GDP, employment, inflation)
• Company earnings reports
• Federal Reserve policy changes
• Global events and sentiment

💡 **Pro Tip**: Focus on long-term investing rather than trying to time the market!`

const genericReply = `🤖 Hi! I'm your StockPulse assistant, here to help you learn about stocks and investing!

💡 **I can help you with:**
• Understanding stock analysis and metrics
• Explaining investment concepts for beginners
• Risk assessment and management strategies
• Market trends and economic indicators

📈 **Popular Questions:**
• "How do I start investing?"
• "What does P/E ratio mean?"
• "Is [STOCK] a good buy?"
• "How risky is this investment?"

What would you like to learn about? 🚀`
