package handlers

import "github.com/gofiber/fiber/v2"

// Register mounts the study and assistant routes on api. auth runs before every route.
func Register(api fiber.Router, auth fiber.Handler, sh *StudyHandler, ah *AssistantHandler) {
	st := api.Group("/study", auth)

	st.Get("/overview", sh.GetOverview)

	st.Post("/subjects", sh.CreateSubject)
	st.Patch("/subjects/:id", sh.RenameSubject)
	st.Delete("/subjects/:id", sh.DeleteSubject)
	st.Post("/subjects/:id/chapters", sh.CreateChapter)
	st.Get("/subjects/:id/presets", sh.ListPresets)
	st.Post("/subjects/:id/presets", sh.CreatePreset)
	st.Post("/subjects/:id/presets/import", sh.ImportPresets)
	st.Post("/subjects/:id/presets/apply", sh.ApplyChapterTemplates)

	st.Delete("/presets/:id", sh.DeletePreset)

	st.Get("/chapters/:id", sh.GetChapterTree)
	st.Patch("/chapters/:id", sh.RenameChapter)
	st.Delete("/chapters/:id", sh.DeleteChapter)
	st.Post("/chapters/:id/presets", sh.ApplyPresets)
	st.Post("/chapters/:id/parts", sh.CreatePart)

	st.Patch("/parts/:id", sh.UpdatePart)
	st.Post("/parts/:id/toggle", sh.TogglePart)
	st.Delete("/parts/:id", sh.DeletePart)

	api.Post("/assistant/actions", auth, ah.ExecuteAction)
}
