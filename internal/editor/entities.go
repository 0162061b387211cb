package editor

import (
	"github.com/nobatyar/nobat/internal/cache"
	"github.com/nobatyar/nobat/internal/models"
)

// Modal keys and target parameters, one pair per entity kind. The header
// and the list views are the only producers of Show; the machines are
// the only callers of Hide.
const (
	ModalAddCategory  = "add-category"
	ModalEditCategory = "edit-category"
	ModalAddDoctor    = "add-doctor"
	ModalEditDoctor   = "edit-doctor"
	ModalFormRequest  = "form-request"

	ParamEditCategoryID = "modal-edit-category-id"
	ParamEditDoctorID   = "modal-edit-doctor-id"
)

// CategoryConfig parameterizes the machine for specialty categories.
func CategoryConfig() Config {
	return Config{
		Kind:        models.TableCategory,
		AddModal:    ModalAddCategory,
		EditModal:   ModalEditCategory,
		TargetParam: ParamEditCategoryID,
		ListTag:     cache.TagCategoryList,
		NameField:   "name",
		SlugField:   "slug",
		ImageField:  "image",
		Defaults:    map[string]string{"name": "", "slug": "", "image": ""},
		Fields: []Field{
			{Key: "name", Rules: []Rule{
				minRunes(3, "نام باید حداقل ۳ کاراکتر باشد"),
				persianScript("نام باید با حروف فارسی نوشته شود"),
			}},
			{Key: "slug", Rules: []Rule{
				minRunes(3, "اسلاگ باید حداقل ۳ کاراکتر باشد"),
				slugAlphabet("اسلاگ باید با حروف انگلیسی و خط تیره باشد"),
			}},
		},
		ToPayload: func(draft map[string]string) map[string]any {
			return map[string]any{
				"name":  draft["name"],
				"slug":  draft["slug"],
				"image": draft["image"],
			}
		},
		FromRecord: func(record map[string]any) map[string]string {
			return map[string]string{
				"name":  str(record, "name"),
				"slug":  str(record, "slug"),
				"image": str(record, "image"),
			}
		},
		Messages: Messages{
			Created:      "دسته‌بندی با موفقیت ایجاد شد",
			Updated:      "دسته‌بندی با موفقیت ویرایش شد",
			CreateFailed: "خطا در ایجاد دسته‌بندی",
			UpdateFailed: "خطا در ویرایش دسته‌بندی",
			FetchFailed:  "خطا در دریافت دسته‌بندی",
			NotFound:     "دسته‌بندی یافت نشد",
			ImageFailed:  "خواندن فایل با خطا مواجه شد",
		},
	}
}

// DoctorConfig parameterizes the machine for doctors. Documents are
// authored as newline-separated text and stored as a list.
func DoctorConfig() Config {
	return Config{
		Kind:        models.TableDoctor,
		AddModal:    ModalAddDoctor,
		EditModal:   ModalEditDoctor,
		TargetParam: ParamEditDoctorID,
		ListTag:     cache.TagDoctorList,
		NameField:   "full_name",
		SlugField:   "slug",
		ImageField:  "image",
		Defaults: map[string]string{
			"full_name": "", "slug": "", "image": "", "medical_code": "",
			"description": "", "documents": "", "category_id": "",
		},
		Fields: []Field{
			{Key: "full_name", Rules: []Rule{
				minRunes(3, "نام پزشک باید حداقل ۳ کاراکتر باشد"),
				persianScript("نام و نام خانوادگی باید با حروف فارسی نوشته شود"),
			}},
			{Key: "slug", Rules: []Rule{
				minRunes(3, "اسلاگ باید حداقل ۳ کاراکتر باشد"),
				slugAlphabet("اسلاگ باید با حروف انگلیسی و خط تیره باشد"),
			}},
			{Key: "image", Rules: []Rule{
				required("انتخاب تصویر الزامی است"),
			}},
			{Key: "medical_code", Rules: []Rule{
				required("کد نظام پزشکی الزامی است"),
				digitsOnly("کد نظام پزشکی باید فقط شامل اعداد باشد"),
			}},
			{Key: "category_id", Rules: []Rule{
				uuidValue("دسته‌بندی را انتخاب کنید"),
			}},
		},
		ToPayload: func(draft map[string]string) map[string]any {
			return map[string]any{
				"full_name":    draft["full_name"],
				"slug":         draft["slug"],
				"image":        draft["image"],
				"medical_code": draft["medical_code"],
				"description":  draft["description"],
				"documents":    models.SplitDocuments(draft["documents"]),
				"category_id":  draft["category_id"],
			}
		},
		FromRecord: func(record map[string]any) map[string]string {
			return map[string]string{
				"full_name":    str(record, "full_name"),
				"slug":         str(record, "slug"),
				"image":        str(record, "image"),
				"medical_code": str(record, "medical_code"),
				"description":  str(record, "description"),
				"documents":    models.JoinDocuments(strList(record, "documents")),
				"category_id":  str(record, "category_id"),
			}
		},
		Messages: Messages{
			Created:      "پزشک با موفقیت ایجاد شد",
			Updated:      "پزشک با موفقیت ویرایش شد",
			CreateFailed: "خطا در ایجاد پزشک",
			UpdateFailed: "خطا در ویرایش پزشک",
			FetchFailed:  "خطا در دریافت پزشک",
			NotFound:     "پزشک یافت نشد",
			ImageFailed:  "خواندن فایل با خطا مواجه شد",
		},
	}
}

// RequestConfig parameterizes the machine for appointment requests.
// Requests are create-only: there is no edit modal and no slug or image
// field.
func RequestConfig() Config {
	return Config{
		Kind:        models.TableRequest,
		AddModal:    ModalFormRequest,
		EditModal:   "",
		TargetParam: "",
		ListTag:     cache.TagRequestList,
		Defaults: map[string]string{
			"first_name": "", "last_name": "", "national_id": "",
			"gender": "", "birth_date": "", "phone": "",
			"specialist": "", "user_id": "",
		},
		Fields: []Field{
			{Key: "first_name", Rules: []Rule{
				minRunes(2, "نام باید حداقل ۲ کاراکتر باشد"),
				persianScript("نام باید با حروف فارسی نوشته شود"),
			}},
			{Key: "last_name", Rules: []Rule{
				minRunes(2, "نام خانوادگی باید حداقل ۲ کاراکتر باشد"),
				persianScript("نام خانوادگی باید با حروف فارسی نوشته شود"),
			}},
			{Key: "national_id", Rules: []Rule{
				exactRunes(10, "کد ملی باید ۱۰ رقم باشد"),
				digitsOnly("کد ملی باید فقط شامل اعداد باشد"),
			}},
			{Key: "gender", Rules: []Rule{
				oneOf("جنسیت را انتخاب کنید", models.GenderMale, models.GenderFemale),
			}},
			{Key: "birth_date", Rules: []Rule{
				isoDate("تاریخ تولد الزامی است"),
			}},
			{Key: "phone", Rules: []Rule{
				minRunes(11, "شماره تماس باید حداقل ۱۱ رقم باشد"),
				digitsOnly("شماره تماس باید فقط شامل اعداد باشد"),
			}},
			{Key: "specialist", Rules: []Rule{
				required("متخصص را انتخاب کنید"),
			}},
		},
		ToPayload: func(draft map[string]string) map[string]any {
			payload := map[string]any{
				"first_name":  draft["first_name"],
				"last_name":   draft["last_name"],
				"national_id": draft["national_id"],
				"gender":      draft["gender"],
				"birth_date":  draft["birth_date"],
				"phone":       draft["phone"],
				"specialist":  draft["specialist"],
				"user_id":     nil,
			}
			if draft["user_id"] != "" {
				payload["user_id"] = draft["user_id"]
			}
			return payload
		},
		FromRecord: func(record map[string]any) map[string]string {
			return map[string]string{
				"first_name":  str(record, "first_name"),
				"last_name":   str(record, "last_name"),
				"national_id": str(record, "national_id"),
				"gender":      str(record, "gender"),
				"birth_date":  str(record, "birth_date"),
				"phone":       str(record, "phone"),
				"specialist":  str(record, "specialist"),
				"user_id":     str(record, "user_id"),
			}
		},
		Messages: Messages{
			Created:      "درخواست نوبت با موفقیت ثبت شد",
			CreateFailed: "خطا در ثبت درخواست",
			FetchFailed:  "خطا در دریافت درخواست",
			NotFound:     "درخواست یافت نشد",
		},
	}
}
