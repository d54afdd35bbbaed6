package xl

import (
	"bytes"
)

func (w *writer) writeWorkbook() error {
	wb := w.wb
	abspath := "/xl/workbook.xml"
	w.part(abspath, ctWorkbook)

	bb := bytes.Buffer{}
	x := newXML(&bb)

	x.OTag("workbook")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("xmlns:r", relOfficeDoc)

	if wb.AppName != "" {
		x.OTag("+fileVersion")
		x.Attr("appName", "xl")
		x.Attr("lastEdited", 4).Attr("lowestEdited", 4).Attr("rupBuild", 4505)
		x.CTag()
	}

	x.OTag("+workbookPr")
	if wb.date1904 {
		x.Attr("date1904", 1)
	}
	x.Attr("defaultThemeVersion", 124226)
	x.CTag()

	x.OTag("+bookViews")
	{
		x.OTag("+workbookView")
		x.Attr("xWindow", 240).Attr("yWindow", 15)
		x.Attr("windowWidth", 16095).Attr("windowHeight", 9660)
		if wb.firstSheet > 0 {
			x.Attr("firstSheet", wb.firstSheet)
		}
		if wb.activeSheet > 0 {
			x.Attr("activeTab", wb.activeSheet)
		}
		x.CTag()
	}
	x.CTag()

	x.OTag("+sheets")
	for i, sheet := range wb.Sheets {
		x.OTag("+sheet")
		x.Attr("name", sheet.Name)
		x.Attr("sheetId", i+1)
		if sheet.view.hidden {
			x.Attr("state", "hidden")
		}
		x.Attr("r:id", w.sheetRIDs[i])
		x.CTag()
	}
	x.CTag()

	if names := wb.allDefinedNames(); len(names) > 0 {
		x.OTag("+definedNames")
		for _, d := range names {
			x.OTag("+definedName").Attr("name", d.name)
			if d.local >= 0 {
				x.Attr("localSheetId", d.local)
			}
			if d.hidden {
				x.Attr("hidden", 1)
			}
			x.String(d.formula)
			x.CTag()
		}
		x.CTag()
	}

	x.OTag("+calcPr").Attr("calcId", 124519)
	switch wb.calcMode {
	case CalcManual:
		x.Attr("calcMode", "manual").Attr("calcOnSave", 0)
	case CalcAutoNoTable:
		x.Attr("calcMode", "autoNoTable")
	}
	if wb.fullCalc {
		x.Attr("fullCalcOnLoad", 1)
	}
	x.CTag()

	x.CTag() // workbook

	return w.writePart(abspath, bb.Bytes())
}
