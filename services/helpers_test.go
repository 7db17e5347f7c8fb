package services

import (
	"bytes"

	"ndtreports/model"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

// fullRecord returns a conclusion with every optional field present.
func fullRecord() model.InspectionRecord {
	return model.InspectionRecord{
		ID:                  "rec1",
		Number:              "НК-2024-001",
		Date:                "2024-01-15",
		ObjectName:          `МГ "Сила Сибири"`,
		PipelineSection:     "ПК 125+40 - ПК 127+10",
		ControlMethod:       "Ультразвуковой контроль",
		Result:              model.ResultAccepted,
		LabName:             model.Some(`ЛНК ООО "Контроль"`),
		LabAccreditation:    model.Some("RA.RU.21НК15"),
		LabAddress:          model.Some("г. Томск, ул. Энергетиков, 5"),
		OrderNumber:         model.Some("З-17"),
		CustomerID:          model.Some("c1"),
		CustomerName:        model.Some(`ООО "Газпром трансгаз Томск"`),
		PipeDiameter:        model.Some("1420"),
		WallThickness:       model.Some("21.6"),
		Executor:            model.Some("Сидоров С.С."),
		ExecutorCertificate: model.Some("№ 0012-НК"),
		Equipment:           model.Some("УД2-12"),
		NormativeDoc:        model.Some("СТО Газпром 15-1.3-004-2023"),
		Sensitivity:         model.Some("2 мм"),
		Temperature:         model.Some("-15 °C"),
		Conclusion:          model.Some("Контроль выполнен в полном объёме. Недопустимых дефектов не обнаружено."),
		Defects: []model.DefectRecord{
			{
				WeldID:        "СС-123",
				WelderName:    model.Some("Иванов И.И. (4АБФ)"),
				Diameter:      model.Some("1420"),
				WallThickness: model.Some("21.6"),
				Description:   model.Some("Пора Аа 1,5"),
				Location:      model.Some("корень шва"),
				Size:          model.Some("1,5 мм"),
				Verdict:       model.VerdictPass,
			},
			{
				WeldID:  "СС-124",
				Verdict: model.VerdictFail,
			},
		},
	}
}

// sparseRecord has only the required fields and no defects.
func sparseRecord() model.InspectionRecord {
	return model.InspectionRecord{
		ID:            "rec2",
		Number:        "НК-2024-002",
		Date:          "2024-01-16",
		ObjectName:    `МГ "Северный поток"`,
		ControlMethod: "Радиографический контроль",
		Result:        model.ResultRejected,
	}
}
