// Package logsink implements three append-only, line-oriented logs:
// chemical counts, reaction firings, and double-strand recruitment events.
// Formatting and IO are split the way gateways/wire and gateways/transport
// are elsewhere in this module: csv.go does the line formatting (this
// file), file.go does the IO.
package logsink

import "strconv"

func chemicalHeader(names []string) []string {
	header := make([]string, 0, len(names)+2)
	header = append(header, "sim_time", "step")
	header = append(header, names...)
	return header
}

func chemicalRow(simTime float64, step uint64, counts []int) []string {
	row := make([]string, 0, len(counts)+2)
	row = append(row, formatFloat(simTime), formatUint(step))
	for _, c := range counts {
		row = append(row, strconv.Itoa(c))
	}
	return row
}

func reactionHeader() []string {
	return []string{"sim_time", "step", "reaction_index"}
}

func reactionRow(simTime float64, step uint64, reactionIndex int) []string {
	return []string{formatFloat(simTime), formatUint(step), strconv.Itoa(reactionIndex)}
}

func doubleStrandHeader() []string {
	return []string{"sim_time", "step", "template_id", "partner_id"}
}

func doubleStrandRow(simTime float64, step uint64, templateID, partnerID int) []string {
	return []string{formatFloat(simTime), formatUint(step), strconv.Itoa(templateID), strconv.Itoa(partnerID)}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatUint(u uint64) string {
	return strconv.FormatUint(u, 10)
}
