package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/mockexam/internal/exam"
)

// batchPrompt is the instruction for one batch. index is 0-based.
func batchPrompt(in Input, size, index, batches int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "身為一位資深「%s」的官方考試委員，您的任務是設計一份包含 %d 道高品質的模擬測驗題目。\n\n", in.ExamName, size)

	if kb, ok := exam.KnowledgeBaseFor(in.ExamName); ok {
		b.WriteString("**核心知識庫：**\n")
		fmt.Fprintf(&b, "您必須嚴格根據以下提供的「%s」知識庫內容來設計所有題目及其詳解，並結合與知識庫內容有關的時事資訊。\n", kb.Title)
		b.WriteString("---\n")
		b.WriteString(kb.Text)
		b.WriteString("\n---\n\n")
	}

	b.WriteString("**測驗目標：**\n全面評估考生在以下指定考試範圍的知識與應用能力：\n")
	for _, t := range in.Topics {
		fmt.Fprintf(&b, "- %s\n", t)
	}

	b.WriteString("\n**題目設計指引：**\n")
	writeBlock(&b, exam.SpecificInstructions(in.ExamName))
	b.WriteString(designGuidelines)
	writeBlock(&b, exam.DifficultyInstructions(in.ExamName))
	writeBlock(&b, exam.AdvancedInstructions(in.Count))
	b.WriteString("- **主題關聯**: 每道題目都必須明確關聯到上方「測驗目標」所列出的其中一個主題，並將該主題的完整字串填入 'topic' 欄位。\n")
	b.WriteString("- **詳解**: 每道題目都必須提供一個 'explanation' 欄位，簡潔但完整地解釋為什麼正確答案是正確的，並釐清相關的核心概念。\n")

	if batches > 1 {
		fmt.Fprintf(&b, "- **批次提醒**: 這是系列請求中的第 %d 批 (共 %d 批)。請確保生成的題目與其他批次相比具有多樣性，涵蓋不同的子主題。\n", index+1, batches)
	}

	b.WriteString("\n請直接生成題目內容，輸出將被嚴格限制為指定的 JSON 結構，不要包含任何額外說明。")
	return b.String()
}

func writeBlock(b *strings.Builder, s string) {
	if s == "" {
		return
	}
	b.WriteString(s)
	b.WriteString("\n")
}

const designGuidelines = `- **題型**：全部為單選題，每題提供四個選項（A, B, C, D），其中有且僅有一個是最佳答案。
- **選項設計**：
    - 正確選項的分配應盡可能均勻，避免連續多題答案相同。
    - 干擾選項（distractors）應具備高誘答性，與正確答案在概念上相關或形式上相似，以鑑別考生是否真正理解核心概念，而不僅是記憶片段知識。
    - 避免提供無關或明顯錯誤的選項。
- **時事結合**：請在適當的情況下，將題目與最新的行業動態、政策發展或時事（例如最新的COP決議、新發布的AI模型或法規）相結合，以評估考生的跟進能力。
- **內容與風格**：
    - **知識定義題**：評量考生對核心術語、原理和框架的掌握。
    - **情境應用題**：設計與現實世界相關的場景（例如：企業導入AI的決策、某項AI技術的應用案例、社會倫理議題），評量考生分析問題並應用知識的能力。
    - 題目應緊扣上方指定的考試範圍，並適度結合最新的AI發展趨勢、重要法規（如歐盟AI法案）或行業動態。
`
