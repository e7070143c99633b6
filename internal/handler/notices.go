package handler

import (
	"fmt"

	"feteer-storefront/internal/model"
)

var (
	noticeEmptyCart = model.Notice{
		Kind:        model.NoticeError,
		Title:       "لا توجد منتجات",
		Description: "الرجاء إضافة منتجات إلى سلة التسوق أولاً",
	}
	noticeCheckoutIncomplete = model.Notice{
		Kind:        model.NoticeError,
		Title:       "المعلومات غير كاملة",
		Description: "الرجاء إكمال جميع البيانات المطلوبة",
	}
	noticeOrderSent = model.Notice{
		Kind:        model.NoticeSuccess,
		Title:       "تم إرسال الطلب بنجاح",
		Description: "سنتواصل معك قريباً لتأكيد الطلب",
	}
	noticeOrderFailed = model.Notice{
		Kind:        model.NoticeError,
		Title:       "تعذر إرسال الطلب",
		Description: "حدث خطأ أثناء الاتصال بالخادم، برجاء المحاولة مرة أخرى",
	}
	noticeInquiryIncomplete = model.Notice{
		Kind:        model.NoticeError,
		Title:       "خطأ في النموذج",
		Description: "برجاء ملء جميع الحقول المطلوبة",
	}
	noticeInquirySent = model.Notice{
		Kind:        model.NoticeSuccess,
		Title:       "تم تقديم الطلب بنجاح",
		Description: "سنتواصل معك قريباً لتأكيد طلبك",
	}
	noticeCatalogUnavailable = model.Notice{
		Kind:        model.NoticeError,
		Title:       "تعذر تحميل المنتجات",
		Description: "برجاء المحاولة مرة أخرى بعد قليل",
	}
	noticeProductNotFound = model.Notice{
		Kind:        model.NoticeError,
		Title:       "المنتج غير موجود",
		Description: "لم يعد هذا المنتج متاحاً",
	}
	noticeInvalidQuantity = model.Notice{
		Kind:        model.NoticeError,
		Title:       "كمية غير صالحة",
		Description: "الكمية يجب أن تكون رقماً صحيحاً",
	}
	noticeCartUnavailable = model.Notice{
		Kind:        model.NoticeError,
		Title:       "تعذر تحديث السلة",
		Description: "برجاء المحاولة مرة أخرى",
	}
)

func noticeAdded(p *model.Product) model.Notice {
	return model.Notice{
		Kind:        model.NoticeSuccess,
		Title:       "تمت الإضافة",
		Description: fmt.Sprintf("تم إضافة %s إلى سلة التسوق", p.Name),
	}
}
