package exam

import "fmt"

// Calibration is the target pass rate and the share of questions per
// difficulty tier.
type Calibration struct {
	PassRate    int // percent
	Basic       int // percent of recall questions
	Applied     int // percent of scenario questions
	Integrative int // percent of cross-topic analysis questions
}

// CalibrationFor returns the difficulty calibration for an exam name.
// The III certification targets a 70% pass rate; everything else is
// calibrated as a hard professional exam at 30%.
func CalibrationFor(examName string) Calibration {
	if CategoryOf(examName) == CategoryIIICert {
		return Calibration{PassRate: 70, Basic: 50, Applied: 40, Integrative: 10}
	}
	return Calibration{PassRate: 30, Basic: 30, Applied: 50, Integrative: 20}
}

// DifficultyInstructions renders the calibration block of the generation
// prompt.
func DifficultyInstructions(examName string) string {
	c := CalibrationFor(examName)
	if CategoryOf(examName) == CategoryIIICert {
		return fmt.Sprintf(`- **難度校準**：此測驗為專業級認證，目標考照率約為 %d%%。您的出題應著重於評估考生對核心知識的理解與基本應用能力，確保掌握關鍵技能。
- **難度分佈**：請依循以下比例出題：
    - **基礎知識與術語題 (約 %d%%)**：評量對核心概念、專有名詞、工具用途的記憶與理解。
    - **情境應用題 (約 %d%%)**：設計常見的實務情境，評量考生應用知識解決基本問題的能力。
    - **整合分析題 (約 %d%%)**：題目可能需要結合多個知識點進行簡單的判斷，鑑別出具備較深入理解的考生。`,
			c.PassRate, c.Basic, c.Applied, c.Integrative)
	}
	return fmt.Sprintf(`- **難度校準**：此測驗為專業級認證，目標考照率約為 %d%%，題目需具備高度鑑別度。您的出題應反映此挑戰性，確保能有效區分出具備深入知識與實務應用能力的考生。
- **難度分佈**：請依循以下比例出題：
    - **基礎概念題 (約 %d%%)**：評量對核心名詞、法規、標準的精確定義與內容的記憶。
    - **情境應用與計算題 (約 %d%%)**：設計企業在推動相關領域時會遇到的複雜實際情境，可能包含簡單的計算，並搭配近期討論的時事資訊。評量考生應用標準與知識以分析和解決問題的能力。
    - **整合分析與比較題 (約 %d%%)**：題目應跨越多個主題，要求考生進行深入比較、分析與判斷，並搭配近期討論的時事資訊，例如比較不同國際標準的細微差異，或評估不同策略的優劣與適用性。`,
		c.PassRate, c.Basic, c.Applied, c.Integrative)
}

// SpecificInstructions returns extra guidance for exam categories that
// need it. Only net-zero exams have any.
func SpecificInstructions(examName string) string {
	if CategoryOf(examName) != CategoryNetZero {
		return ""
	}
	return `- **法規與時事重點 (非常重要)**: 出題時，請**優先**著重於評量考生對**近期新增或即將上路**的國內外淨零碳相關法規、政策與標準的理解。題目應緊密結合最新的時事，例如：
    - **國際**: COP最新決議的影響、歐盟CBAM過渡期後的正式實施細節、ISO 14068-1碳中和標準的應用。
    - **國內**: 台灣《氣候變遷因應法》的最新子法進度、碳費徵收機制的具體規劃、自願減量額度交易的發展等。
    - 請將這些最新的動態融入情境題中，以評估考生的實務應用與跟進能力。`
}

// AdvancedThreshold is the total question count from which coverage and
// variety instructions are added.
const AdvancedThreshold = 20

// AdvancedInstructions returns coverage guidance for long exams, or ""
// when total is below AdvancedThreshold.
func AdvancedInstructions(total int) string {
	if total < AdvancedThreshold {
		return ""
	}
	return fmt.Sprintf(`- **測驗整體性考量 (重要)**: 由於這是一份包含 %d 題的較完整測驗，請在出題時考量整體性：
    - **主題覆蓋廣度**: 請確保生成的題目能廣泛地覆蓋「測驗目標」中列出的多個不同主題，避免過度集中在少數幾個主題上。
    - **題型多樣性**: 除了知識定義題和情境應用題，請適度加入需要**比較分析**或**整合判斷**的題型，並搭配近期討論的時事資訊，以增加測驗的鑑別度。
    - **避免重複**: 請注意避免生成題意或考點過於相似的題目。`, total)
}
