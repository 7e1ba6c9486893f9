package exportService

import (
	"bytes"
	"fmt"
	"time"

	"codeberg.org/go-pdf/fpdf"
)

// renderPDF mirrors the CSV report in paged form: metadata, summary
// table, emotion distribution with percentages and the latest 20 log
// rows.
func renderPDF(window reportWindow, employeeID string, days int, now time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Employee Monitoring Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(30, 64, 175)
	pdf.CellFormat(0, 12, "Employee Monitoring Report", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetTextColor(0, 0, 0)
	writeMetaRow(pdf, "Employee ID:", employeeID)
	writeMetaRow(pdf, "Report Generated:", now.Format("2006-01-02 15:04:05"))
	writeMetaRow(pdf, "Report Period:", fmt.Sprintf("Last %d day(s)", normalizeDays(days)))
	pdf.Ln(6)

	writeHeading(pdf, "Summary Statistics")
	writeTableHeader(pdf, []string{"Metric", "Value"}, []float64{90, 90}, 59, 130, 246)
	writeTableRow(pdf, []string{"Total Detections", fmt.Sprintf("%d", window.summary.TotalDetections)}, []float64{90, 90})
	writeTableRow(pdf, []string{"Presence Rate", fmt.Sprintf("%.2f%%", window.summary.PresencePercentage)}, []float64{90, 90})
	writeTableRow(pdf, []string{"Working Hours", fmt.Sprintf("%.2fh", window.summary.WorkingHours)}, []float64{90, 90})
	writeTableRow(pdf, []string{"Most Frequent Emotion", mostFrequentEmotion(window.summary.EmotionDistribution)}, []float64{90, 90})
	pdf.Ln(6)

	writeHeading(pdf, "Emotion Distribution")
	emotions := sortedEmotions(window.summary.EmotionDistribution)
	if len(emotions) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 8, "No emotion data available", "", 1, "L", false, 0, "")
	} else {
		total := 0
		for _, e := range emotions {
			total += e.count
		}

		writeTableHeader(pdf, []string{"Emotion", "Count", "Percentage"}, []float64{60, 60, 60}, 139, 92, 246)
		for _, e := range emotions {
			percentage := float64(e.count) / float64(total) * 100
			writeTableRow(pdf, []string{
				capitalize(e.label),
				fmt.Sprintf("%d", e.count),
				fmt.Sprintf("%.1f%%", percentage),
			}, []float64{60, 60, 60})
		}
	}
	pdf.Ln(6)

	writeHeading(pdf, "Detailed Detection Log (Latest 20)")
	if len(window.detections) == 0 {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 8, "No detection logs available", "", 1, "L", false, 0, "")
	} else {
		writeTableHeader(pdf, []string{"Time", "Status", "Emotion", "Confidence"}, []float64{45, 45, 45, 45}, 16, 185, 129)

		rows := window.detections
		if len(rows) > 20 {
			rows = rows[:20]
		}

		for _, d := range rows {
			status := "Absent"
			if d.IsPresent {
				status = "Present"
			}
			writeTableRow(pdf, []string{
				d.Timestamp.Format("15:04:05"),
				status,
				capitalize(emotionOrNA(d)),
				confidenceOrNA(d, "%.1f%%"),
			}, []float64{45, 45, 45, 45})
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func writeMetaRow(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 7, value, "", 1, "L", false, 0, "")
}

func writeHeading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(55, 65, 81)
	pdf.CellFormat(0, 10, text, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func writeTableHeader(pdf *fpdf.Fpdf, labels []string, widths []float64, r, g, b int) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(r, g, b)
	pdf.SetTextColor(245, 245, 245)
	for i, label := range labels {
		pdf.CellFormat(widths[i], 8, label, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
}

func writeTableRow(pdf *fpdf.Fpdf, values []string, widths []float64) {
	pdf.SetFont("Helvetica", "", 9)
	for i, value := range values {
		pdf.CellFormat(widths[i], 7, value, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
}

func mostFrequentEmotion(distribution map[string]int) string {
	emotions := sortedEmotions(distribution)
	if len(emotions) == 0 {
		return "N/A"
	}
	return capitalize(emotions[0].label)
}
