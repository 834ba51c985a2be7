package telegram

import (
	"fmt"
	"strings"

	"buggloo/api/internal/insect"
)

// FormatInsect renders one identification answer as a Markdown card.
// Empty fields are skipped rather than printed as blanks.
func FormatInsect(ins *insect.Insect) string {
	var b strings.Builder

	if ins.IsInsect == nil || !*ins.IsInsect {
		b.WriteString("🔍 That's not an insect")
		if ins.CommonName != "" {
			fmt.Fprintf(&b, " — it looks like a *%s*", ins.CommonName)
		}
		b.WriteString(".\n\n")
	} else {
		b.WriteString("🐞 *")
		b.WriteString(ins.CommonName)
		b.WriteString("*")
		if ins.ScientificName != "" {
			fmt.Fprintf(&b, " _(%s)_", ins.ScientificName)
		}
		b.WriteString("\n\n")
	}

	writeLine(&b, "Order", ins.Order)
	writeLine(&b, "Family", ins.Family)
	writeLine(&b, "Size", ins.Size)
	writeLine(&b, "Habitat", ins.HabitatType)
	writeLine(&b, "Range", ins.GeographicRange)
	writeLine(&b, "Diet", ins.Diet)
	writeLine(&b, "Active", ins.ActivityTime)
	writeLine(&b, "Lifespan", ins.Lifespan)
	writeLine(&b, "Role", ins.RoleInEcosystem)
	writeLine(&b, "Conservation", ins.ConservationStatus)

	if ins.Venomous != nil && *ins.Venomous {
		b.WriteString("⚠️ Venomous\n")
	}
	if ins.ToxicToHumans != nil && *ins.ToxicToHumans {
		b.WriteString("⚠️ Toxic to humans\n")
	}

	if len(ins.InterestingFacts) > 0 {
		b.WriteString("\n💡 ")
		b.WriteString(ins.InterestingFacts[0])
		b.WriteString("\n")
	}
	if ins.URLWikipedia != "" {
		b.WriteString("\n")
		b.WriteString(ins.URLWikipedia)
		b.WriteString("\n")
	}

	if ins.IsInsect != nil && *ins.IsInsect {
		b.WriteString("\nAsk me anything about it!")
	}
	return b.String()
}

func writeLine(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	fmt.Fprintf(b, "*%s:* %s\n", label, value)
}
