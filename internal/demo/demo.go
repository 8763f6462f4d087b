// Package demo is the deterministic stand-in for the live pipelines: no
// retrieval, no model calls, byte-stable output. Selected once per request
// by the demo-mode flag before anything else runs.
package demo

import (
	"context"
	"strings"
	"time"

	"github.com/ledgerops/daicho/internal/schema"
)

// ReportDelay imitates generation latency so demonstrations feel live.
// Tests shrink it.
var ReportDelay = 2 * time.Second

func intPtr(n int) *int { return &n }

// chatRule maps trigger substrings to a canned answer. All triggers must be
// present; the first matching rule wins.
type chatRule struct {
	triggers []string
	result   schema.ChatResult
}

var chatRules = []chatRule{
	{
		triggers: []string{"支払", "条件"},
		result: schema.ChatResult{
			Answer: "本案件の支払条件は「月末締め翌月末払い（Net 30相当）」です。契約書に基づき、請求書発行から翌月末日までの入金が必要です。なお、遅延時の損害金は年率14.6%と定められています。",
			Sources: []schema.Citation{{
				DocID:    "DOC-202512-C-0002-JP",
				Filename: "DOC-202512-C-0002-JP.pdf",
				Page:     intPtr(1),
				Excerpt:  "第2条（支払条件）1. 請求締め日：毎月末日 2. 請求書発行日：締め日から5営業日以内 3. 支払期日：請求書発行日の翌月末日（Net 30相当）",
			}},
		},
	},
	{
		triggers: []string{"検収"},
		result: schema.ChatResult{
			Answer: "検収条件は「納品日から10営業日以内」となっています。期間内に異議がない場合は、自動的に検収完了とみなされます。",
			Sources: []schema.Citation{{
				DocID:    "DOC-202512-C-0002-JP",
				Filename: "DOC-202512-C-0002-JP.pdf",
				Page:     intPtr(1),
				Excerpt:  "第3条（検収）検収期間：納品日から10営業日以内。みなし検収：期間内に異議がない場合は検収完了とする。",
			}},
		},
	},
	{
		triggers: []string{"督促"},
		result: schema.ChatResult{
			Answer: "督促フローは以下の通りです：支払期日から1営業日後に一次督促（メール）、7日後に二次督促（電話/書面）、14日後に経営者エスカレーション（取引停止判断）となります。",
			Sources: []schema.Citation{{
				DocID:    "DOC-202512-POL-0002-JP",
				Filename: "DOC-202512-POL-0002-JP.pdf",
				Page:     intPtr(1),
				Excerpt:  "2. 督促フロー【RAG重要項目】・支払期日＋1営業日：一次督促（メール）・支払期日＋7日：二次督促（電話/書面）・支払期日＋14日：経営者エスカレーション（停止判断）",
			}},
		},
	},
}

var chatDefault = schema.ChatResult{
	Answer: "これはデモ版（Mock Mode）です。契約書や発注書の内容に基づいて回答します。例えば「支払条件は？」「検収期間は？」「督促フローは？」と聞いてみてください。",
	Sources: []schema.Citation{{
		DocID:    "DOC-202512-POL-0002-JP",
		Filename: "DOC-202512-POL-0002-JP.pdf",
		Page:     intPtr(1),
		Excerpt:  "社内ルール：請求・入金管理 適用範囲：全案件",
	}},
}

// Chat returns the canned answer for a query. Identical input yields
// identical output.
func Chat(query string) *schema.ChatResult {
	for _, rule := range chatRules {
		if matchesAll(query, rule.triggers) {
			result := rule.result
			return &result
		}
	}
	result := chatDefault
	return &result
}

func matchesAll(query string, triggers []string) bool {
	for _, trig := range triggers {
		if !strings.Contains(query, trig) {
			return false
		}
	}
	return true
}

// Report returns the fixed weekly report after a short artificial delay.
// The delay respects context cancellation.
func Report(ctx context.Context) (*schema.ReportResult, error) {
	select {
	case <-time.After(ReportDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return &schema.ReportResult{
		StatusSummary: "【デモ版】全体の回収状況は良好ですが、2件の期限超過案件が発生しており注意が必要です。未請求額は前週比で減少傾向にあります。",
		KeyHighlights: []string{
			"期限超過案件が2件（合計50万円）発生しており、督促が必要です。",
			"今週の新規受注は3件、合計120万円で順調に推移しています。",
			"未請求の案件が1件あり、月末までの対応が推奨されます。",
		},
		NextActions: []schema.NextAction{
			{
				OrderID:         "ORD-2025-001",
				Category:        "billing_reminder",
				SuggestedAction: "㈱サンプル商事へ再督促メールを送信してください。",
				ReasoningSource: "支払期日(12/20)から3日経過",
			},
			{
				OrderID:         "ORD-2025-004",
				Category:        "contract_review",
				SuggestedAction: "次回契約更新に向けて、単価交渉の準備を推奨します。",
				ReasoningSource: "利益率低下の兆候あり",
			},
		},
	}, nil
}
