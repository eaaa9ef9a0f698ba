package report

import (
	"fmt"
	"math"
	"strconv"

	"github.com/manifoldco/promptui"
)

// Band is the color/label bucket of a score.
type Band int

const (
	LowestBand Band = iota
	ThirdBand
	SecondBand
	TopBand
)

const (
	topThreshold    = 85
	secondThreshold = 70
	thirdThreshold  = 55
)

type bandStyle struct {
	name  string
	color string
	style func(interface{}) string
}

var bandStyles = map[Band]bandStyle{
	TopBand:    {name: "top", color: "#22c55e", style: promptui.Styler(promptui.FGGreen, promptui.FGBold)},
	SecondBand: {name: "second", color: "#3b82f6", style: promptui.Styler(promptui.FGBlue, promptui.FGBold)},
	ThirdBand:  {name: "third", color: "#eab308", style: promptui.Styler(promptui.FGYellow, promptui.FGBold)},
	LowestBand: {name: "lowest", color: "#ef4444", style: promptui.Styler(promptui.FGRed, promptui.FGBold)},
}

// BandFor maps a score to its band. Thresholds apply to the unrounded score.
func BandFor(score float64) Band {
	switch {
	case score >= topThreshold:
		return TopBand
	case score >= secondThreshold:
		return SecondBand
	case score >= thirdThreshold:
		return ThirdBand
	default:
		return LowestBand
	}
}

func (b Band) String() string { return bandStyles[b].name }

// Color is the hex color used by both renderers.
func (b Band) Color() string { return bandStyles[b].color }

func (b Band) styler() func(interface{}) string {
	if style, ok := bandStyles[b]; ok {
		return style.style
	}
	return func(v interface{}) string { return fmt.Sprint(v) }
}

// FillAngle is the dial sweep in degrees.
func FillAngle(score float64) float64 {
	return score * 3.6
}

// BarWidth is the cluster bar width in percent.
func BarWidth(alignPct float64) float64 {
	return alignPct
}

// FormatScore is the score as both renderers print it.
func FormatScore(score float64) string {
	return strconv.FormatFloat(math.Round(score), 'f', 0, 64)
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
